package typefilter_test

import (
	"testing"

	"github.com/MereWhiplash/codex-cogitator/internal/typefilter"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantValue string
		wantKind  typefilter.Kind
		wantOK    bool
	}{
		{
			name:      "mbti code in query",
			query:     "advice for INFJ relationships",
			wantValue: "INFJ",
			wantKind:  typefilter.KindMBTI,
			wantOK:    true,
		},
		{
			name:      "mbti lowercase",
			query:     "enfp career paths",
			wantValue: "ENFP",
			wantKind:  typefilter.KindMBTI,
			wantOK:    true,
		},
		{
			name:      "enneagram numeric normalized",
			query:     "type 4 enneagram wing 5",
			wantValue: "Type 4",
			wantKind:  typefilter.KindEnneagram,
			wantOK:    true,
		},
		{
			name:      "enneagram keyword form",
			query:     "what is enneagram 7 like at work",
			wantValue: "Type 7",
			wantKind:  typefilter.KindEnneagram,
			wantOK:    true,
		},
		{
			name:      "spelled-out number passes through unnormalized",
			query:     "growth tips for type one",
			wantValue: "ONE",
			wantKind:  typefilter.KindEnneagram,
			wantOK:    true,
		},
		{
			name:   "no type mentioned",
			query:  "meditation techniques for anxiety",
			wantOK: false,
		},
		{
			name:      "mbti wins over enneagram",
			query:     "ISTP compared to type 5",
			wantValue: "ISTP",
			wantKind:  typefilter.KindMBTI,
			wantOK:    true,
		},
		{
			name:      "multiple mbti codes pick enumeration order",
			query:     "ENFP versus INTJ debate",
			wantValue: "INTJ",
			wantKind:  typefilter.KindMBTI,
			wantOK:    true,
		},
		{
			name:      "type with no space",
			query:     "TYPE4 description",
			wantValue: "Type 4",
			wantKind:  typefilter.KindEnneagram,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, ok := typefilter.Detect(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("Detect(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if filter.Value != tt.wantValue {
				t.Errorf("Detect(%q) value = %q, want %q", tt.query, filter.Value, tt.wantValue)
			}
			if filter.Kind != tt.wantKind {
				t.Errorf("Detect(%q) kind = %v, want %v", tt.query, filter.Kind, tt.wantKind)
			}
		})
	}
}
