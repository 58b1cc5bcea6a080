package review

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/recipeshare/internal/domain"
)

func TestNew(t *testing.T) {
	r, err := New("u1", "r1", 4, "<i>great</i>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Rating != 4 || r.Body != "great" || r.ID == "" || r.Images == nil {
		t.Errorf("got %+v", r)
	}
}

func TestNew_RatingBounds(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		if _, err := New("u1", "r1", rating, ""); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("rating %d: expected ErrInvalidInput, got %v", rating, err)
		}
	}
}

func TestApply(t *testing.T) {
	r, _ := New("u1", "r1", 2, "meh")
	five := 5
	got, err := r.Apply(Patch{Rating: &five})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Rating != 5 || got.Body != "meh" {
		t.Errorf("got %+v", got)
	}
}
