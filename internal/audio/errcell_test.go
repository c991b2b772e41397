package audio

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestErrorCellEmpty(t *testing.T) {
	var cell errorCell
	if err := cell.Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestErrorCellFirstErrorWins(t *testing.T) {
	var cell errorCell
	first := errors.New("first")
	second := errors.New("second")

	cell.Set(first)
	cell.Set(second)

	if err := cell.Err(); !errors.Is(err, first) {
		t.Fatalf("expected first error, got %v", err)
	}
}

func TestErrorCellIgnoresNil(t *testing.T) {
	var cell errorCell
	cell.Set(nil)
	if err := cell.Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	recorded := errors.New("write failed")
	cell.Set(recorded)
	cell.Set(nil)
	if err := cell.Err(); !errors.Is(err, recorded) {
		t.Fatalf("expected recorded error to survive, got %v", err)
	}
}

func TestErrorCellConcurrentSet(t *testing.T) {
	var cell errorCell
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cell.Set(fmt.Errorf("error %d", n))
		}(i)
	}
	wg.Wait()

	if cell.Err() == nil {
		t.Fatal("expected one of the errors to be recorded")
	}
}
