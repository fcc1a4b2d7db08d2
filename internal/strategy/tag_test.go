package strategy

import "testing"

func TestTag_EncodeRoundTrip(t *testing.T) {
	tag := Tag{
		Strategy:    TrueBreakout,
		Direction:   DirectionBuy,
		VolumeClass: VolumeClassNormal,
		RangeID:     "4H_5M",
	}

	encoded, err := tag.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if encoded != "TB|BUY|V|4H5M" {
		t.Fatalf("unexpected encoding %q", encoded)
	}

	decoded := ParseTag(encoded)
	if decoded.Strategy != TrueBreakout || decoded.Direction != DirectionBuy {
		t.Errorf("round trip lost strategy/direction: %+v", decoded)
	}
	if decoded.VolumeClass != VolumeClassNormal || decoded.RangeID != "4H5M" {
		t.Errorf("round trip lost volume class/range: %+v", decoded)
	}
}

func TestTag_EncodeRejectsSeparator(t *testing.T) {
	tag := Tag{Strategy: "T|B", Direction: DirectionBuy, VolumeClass: "V", RangeID: "4H_5M"}
	if _, err := tag.Encode(); err == nil {
		t.Fatalf("embedded separator must be rejected")
	}
}

func TestTag_EncodeRejectsIncompleteTag(t *testing.T) {
	tag := Tag{Direction: DirectionBuy, VolumeClass: "V", RangeID: "4H_5M"}
	if _, err := tag.Encode(); err == nil {
		t.Fatalf("missing strategy must be rejected")
	}
}

func TestParseTag_MalformedYieldsZero(t *testing.T) {
	for _, comment := range []string{"", "garbage", "TB|BUY", "TB|BUY|V|4H5M|extra"} {
		tag := ParseTag(comment)
		if tag.Strategy != "" || tag.RangeID != "" {
			t.Errorf("malformed comment %q should yield zero tag, got %+v", comment, tag)
		}
	}
}

func TestCompactRangeID(t *testing.T) {
	cases := map[string]string{
		"4H_5M":  "4H5M",
		"15M_1M": "15M1M",
		"4H5M":   "4H5M",
		"a-b.c":  "abc",
	}
	for in, want := range cases {
		if got := CompactRangeID(in); got != want {
			t.Errorf("CompactRangeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTag_FitsCommentLimit(t *testing.T) {
	tag := Tag{Strategy: FalseBreakout, Direction: DirectionSell, VolumeClass: VolumeClassDepressed, RangeID: "15M_1M"}
	encoded, err := tag.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if len(encoded) > 26 {
		t.Errorf("encoded tag %q exceeds broker comment limit", encoded)
	}
}
