//go:build !integration

package model_test

import (
	"testing"

	"spodown-client/internal/domain/model"
)

func TestDownloadSession_ApplyProgress(t *testing.T) {
	t.Run("should accept monotonic samples", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		for _, pct := range []int{10, 40, 95} {
			if !s.ApplyProgress(pct) {
				t.Fatalf("sample %d rejected", pct)
			}
		}
		if s.Percentage != 95 {
			t.Errorf("expected 95, got %d", s.Percentage)
		}
	})

	t.Run("should clamp regressions instead of trusting them", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		s.ApplyProgress(60)
		if !s.ApplyProgress(30) {
			t.Fatal("a regressed sample is still a valid sample")
		}
		if s.Percentage != 60 {
			t.Errorf("regression must not lower the bar, got %d", s.Percentage)
		}
	})

	t.Run("should clamp values above 100", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		s.ApplyProgress(250)
		if s.Percentage != 100 {
			t.Errorf("expected 100, got %d", s.Percentage)
		}
	})

	t.Run("should discard samples against a terminal session", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		s.MarkCancelled()
		if s.ApplyProgress(50) {
			t.Error("terminal session must discard progress samples")
		}
		if s.Percentage != 0 {
			t.Errorf("discarded sample leaked: %d", s.Percentage)
		}
	})
}

func TestDownloadSession_Transitions(t *testing.T) {
	t.Run("complete forces the percentage to 100", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		s.ApplyProgress(97)
		if !s.MarkComplete() {
			t.Fatal("running session must complete")
		}
		if s.Percentage != 100 {
			t.Errorf("expected 100, got %d", s.Percentage)
		}
		if !s.Terminal() {
			t.Error("complete is terminal")
		}
	})

	t.Run("terminal transitions do not stack", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		if !s.MarkFailed("lost contact") {
			t.Fatal("running session must fail")
		}
		if s.MarkComplete() {
			t.Error("failed session must not complete")
		}
		if s.MarkCancelled() {
			t.Error("failed session must not cancel")
		}
		if s.Phase != model.PhaseFailed || s.FailReason != "lost contact" {
			t.Errorf("unexpected state: %s %q", s.Phase, s.FailReason)
		}
	})

	t.Run("output snapshots replace, never append", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		s.ApplyOutput("line 1\n")
		s.ApplyOutput("line 1\nline 2\n")
		if s.OutputLog != "line 1\nline 2\n" {
			t.Errorf("unexpected log: %q", s.OutputLog)
		}
		if s.ApplyOutput("") {
			t.Error("empty snapshot must be skipped")
		}
	})

	t.Run("items are only recorded after completion", func(t *testing.T) {
		s := model.NewDownloadSession("sess-1", "ref", model.ModeURL)
		if s.SetItems([]string{"a"}) {
			t.Error("running session must not accept items")
		}
		s.MarkComplete()
		if !s.SetItems([]string{"a", "b"}) {
			t.Error("completed session must accept items")
		}
		if len(s.Items) != 2 {
			t.Errorf("expected 2 items, got %d", len(s.Items))
		}
	})
}

func TestDownloadSession_Reset(t *testing.T) {
	s := model.NewDownloadSession("sess-1", "https://x", model.ModeURL)
	s.ApplyProgress(80)
	s.ApplyOutput("working\n")
	s.MarkCancelled()
	s.Reset()

	if s.ID != "" {
		t.Error("reset must drop the session handle")
	}
	if s.Phase != model.PhaseIdle {
		t.Errorf("expected idle, got %s", s.Phase)
	}
	if s.Percentage != 0 || s.OutputLog != "" || s.Items != nil || s.FailReason != "" {
		t.Errorf("reset left state behind: %+v", s)
	}
	// A sample addressed to the dropped handle finds nothing to update.
	if s.ApplyProgress(99) {
		t.Error("idle session must discard progress samples")
	}
}
