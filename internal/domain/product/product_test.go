package product

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestNew_RequiresName(t *testing.T) {
	if _, err := New(Fields{Tags: "red"}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestNew_EmptyTagsAllowed(t *testing.T) {
	p, err := New(Fields{Name: "Red Shirt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Tags() != "" {
		t.Errorf("expected empty tags, got %q", p.Tags())
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw       string
		want      Number
		wantValid bool
	}{
		{"399", Some(399), true},
		{"₹1,099", Some(1099), true},
		{"$12.50", Some(12.5), true},
		{"64%", Some(64), true},
		{" 4.2 ", Some(4.2), true},
		{"", None(), true},
		{"|", None(), false},
		{"NaN", None(), false},
		{"four", None(), false},
	}
	for _, tc := range tests {
		got, ok := ParseNumber(tc.raw)
		if ok != tc.wantValid {
			t.Errorf("ParseNumber(%q) ok = %v, want %v", tc.raw, ok, tc.wantValid)
		}
		if got != tc.want {
			t.Errorf("ParseNumber(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestView_JSON(t *testing.T) {
	p, err := New(Fields{
		Name:            "Cable",
		Tags:            "usb cable",
		DiscountedPrice: Some(199),
		ActualPrice:     Some(499),
		ImageLink:       "https://img/cable.jpg",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data, err := json.Marshal(p.View())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Cable","discounted_price":199,"actual_price":499,` +
		`"discount_percentage":null,"img_link":"https://img/cable.jpg","rating":null}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\ngot:  %s\nwant: %s", data, want)
	}

	var back View
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != p.View() {
		t.Errorf("decoded view mismatch: %+v", back)
	}
}
