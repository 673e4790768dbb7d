package telegram

import (
	"errors"
	"strings"
	"testing"
)

func TestCallbackRoundTrip(t *testing.T) {
	callbacks := []Callback{
		{Kind: CallbackTrain, Arg: "17"},
		{Kind: CallbackTrack, Arg: "17"},
		{Kind: CallbackUntrack, Arg: "42"},
		{Kind: CallbackDate, Arg: "2026-10-15"},
		{Kind: CallbackMonth, Arg: "2026-11"},
		{Kind: CallbackBack},
		{Kind: CallbackStopYes},
		{Kind: CallbackStopNo},
		{Kind: CallbackNoop},
	}
	for _, want := range callbacks {
		got, err := ParseCallback(want.Data())
		if err != nil {
			t.Fatalf("parse %q: %v", want.Data(), err)
		}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	}
}

func TestParseCallbackRejectsMalformedData(t *testing.T) {
	cases := map[string]string{
		"no separator":     "train",
		"unknown kind":     "alert:1",
		"empty train":      "train:",
		"train by number":  "train:687Б",
		"zero tracking id": "untrack:0",
		"bad tracking id":  "untrack:abc",
		"too long":         "train:" + strings.Repeat("1", maxCallbackData),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCallback(data); !errors.Is(err, ErrInvalidCallback) {
				t.Fatalf("expected ErrInvalidCallback, got %v", err)
			}
		})
	}
}
