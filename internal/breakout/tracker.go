package breakout

import (
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"rangetrader/internal/config"
)

const shardCount = 32

// Tracker 维护每个 (品种, 区间) 键的突破检测状态。
//
// 状态表按键哈希分片加锁，互不相关的品种不会互相阻塞。同一键上
// above/below 互斥：一个方向检出时另一个方向被清除。老化检查在每次
// 读取时执行，而不是依赖后台定时器，因为读写在轮询周期间交错发生。
type Tracker struct {
	cfg    config.BreakoutConfig
	logger *zap.Logger
	shards [shardCount]*trackerShard
}

type trackerShard struct {
	mu     sync.Mutex
	states map[string]*keyState
}

type keyState struct {
	above      DirectionState
	below      DirectionState
	rangeStart time.Time
}

// NewTracker 创建状态跟踪器。
func NewTracker(cfg config.BreakoutConfig, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		cfg:    cfg,
		logger: logger,
	}
	for i := range t.shards {
		t.shards[i] = &trackerShard{states: make(map[string]*keyState)}
	}
	return t
}

func stateKey(instrument, rangeID string) string {
	return instrument + "|" + rangeID
}

func (t *Tracker) shardFor(key string) *trackerShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return t.shards[h.Sum32()%shardCount]
}

// locked 在持有分片锁的情况下执行 fn，状态按需惰性创建。
func (t *Tracker) locked(instrument, rangeID string, fn func(st *keyState)) {
	key := stateKey(instrument, rangeID)
	shard := t.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	st, ok := shard.states[key]
	if !ok {
		st = &keyState{}
		shard.states[key] = st
	}
	fn(st)
}

// BeginRange 通知跟踪器某键进入了新的参考周期。
// 参考区间换代时旧突破随之作废；返回是否清除了已有检测。
func (t *Tracker) BeginRange(instrument, rangeID string, rangeStart time.Time) bool {
	var cleared bool

	t.locked(instrument, rangeID, func(st *keyState) {
		if st.rangeStart.Equal(rangeStart) {
			return
		}

		cleared = st.above.Detected || st.below.Detected
		st.above = DirectionState{}
		st.below = DirectionState{}
		st.rangeStart = rangeStart
	})

	if cleared {
		t.logger.Info("参考区间换代，突破状态已重置",
			zap.String("instrument", instrument),
			zap.String("range", rangeID),
			zap.Time("range_start", rangeStart),
		)
	}

	return cleared
}

// Observe 将分类结果并入状态，返回是否产生了新的检测。
// 检测时间取K线收盘时刻，成交量取该K线成交量。
func (t *Tracker) Observe(instrument, rangeID string, sig Signal, closeTime time.Time, volume float64) bool {
	if sig != SignalAbove && sig != SignalBelow {
		return false
	}

	var fresh bool

	t.locked(instrument, rangeID, func(st *keyState) {
		switch sig {
		case SignalAbove:
			if st.above.Detected {
				return
			}
			st.above = DirectionState{Detected: true, Time: closeTime, Volume: volume}
			st.below = DirectionState{}
			fresh = true
		case SignalBelow:
			if st.below.Detected {
				return
			}
			st.below = DirectionState{Detected: true, Time: closeTime, Volume: volume}
			st.above = DirectionState{}
			fresh = true
		}
	})

	return fresh
}

// Current 返回某键的状态快照，读取前先做老化检查。
// breakoutTF 为该区间设定的突破周期时长，老化上限 = timeout_candles × breakoutTF。
func (t *Tracker) Current(instrument, rangeID string, breakoutTF time.Duration, now time.Time) (Snapshot, []Expiry) {
	limit := time.Duration(t.cfg.TimeoutCandles) * breakoutTF

	var snap Snapshot
	var expired []Expiry

	t.locked(instrument, rangeID, func(st *keyState) {
		if e, ok := t.expireStale(&st.above, DirectionAbove, limit, now); ok {
			expired = append(expired, e)
		}
		if e, ok := t.expireStale(&st.below, DirectionBelow, limit, now); ok {
			expired = append(expired, e)
		}
		snap = Snapshot{Above: st.above, Below: st.below}
	})

	for _, e := range expired {
		t.logger.Info("突破状态超时重置",
			zap.String("instrument", instrument),
			zap.String("range", rangeID),
			zap.String("direction", string(e.Direction)),
			zap.Duration("age", e.Age),
		)
	}

	return snap, expired
}

func (t *Tracker) expireStale(ds *DirectionState, dir Direction, limit time.Duration, now time.Time) (Expiry, bool) {
	if !ds.Detected || limit <= 0 {
		return Expiry{}, false
	}

	age := now.Sub(ds.Time)
	stale := age > limit || (t.cfg.ExpireAtBoundary && age == limit)
	if !stale {
		return Expiry{}, false
	}

	e := Expiry{Direction: dir, Detected: ds.Time, Age: age}
	*ds = DirectionState{}
	return e, true
}

// Reset 无条件清空某键的状态。
func (t *Tracker) Reset(instrument, rangeID string) {
	t.locked(instrument, rangeID, func(st *keyState) {
		st.above = DirectionState{}
		st.below = DirectionState{}
	})
}
