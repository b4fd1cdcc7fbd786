package main

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseInt32s(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []int64
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"trims spaces", []string{" 1", "2 "}, []int64{1, 2}, false},
		{"max int32", []string{"2147483647"}, []int64{2147483647}, false},
		{"min int32", []string{"-2147483648"}, []int64{-2147483648}, false},
		{"just past int32", []string{"2147483648"}, nil, true},
		{"would wrap to 1", []string{"4294967297"}, nil, true},
		{"not a number", []string{"abc"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInt32s("declared-vendor-ids", tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseInt32s(%v) error = %v, wantErr %v", tt.values, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseInt32s(%v) mismatch (-want +got):\n%s", tt.values, diff)
			}
		})
	}
}

func TestParseInt32s_RangeError(t *testing.T) {
	_, err := parseInt32s("declared-vendor-ids", []string{"4294967297"})
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("expected a range error, got %v", err)
	}
}

func TestParseInt64s(t *testing.T) {
	got, err := parseInt64s("included-geo-ids", []string{"4294967297"})
	if err != nil {
		t.Fatalf("parseInt64s: %v", err)
	}
	if diff := cmp.Diff([]int64{4294967297}, got); diff != "" {
		t.Errorf("parseInt64s mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDimensions(t *testing.T) {
	got, err := parseDimensions("included-creative-dimensions", []string{"480x320", " 1080X1920 "})
	if err != nil {
		t.Fatalf("parseDimensions: %v", err)
	}
	if len(got) != 2 || got[0].Height != 480 || got[1].Width != 1920 {
		t.Errorf("unexpected dimensions: %+v", got)
	}
	if _, err := parseDimensions("included-creative-dimensions", []string{"480"}); err == nil {
		t.Error("expected a value without x to fail")
	}
}
