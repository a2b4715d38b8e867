package game

import "testing"

func TestNextHintLadder(t *testing.T) {
  tests := []struct {
    usedCount int
    wantTier  int
  }{
    {0, 1},
    {1, 2},
    {2, 3},
    {3, 3},
    {10, 3},
  }
  for _, tt := range tests {
    text, tier, ok := NextHint("authority", tt.usedCount)
    if !ok {
      t.Fatalf("usedCount=%d: expected hint", tt.usedCount)
    }
    if tier != tt.wantTier {
      t.Fatalf("usedCount=%d: tier = %d, want %d", tt.usedCount, tier, tt.wantTier)
    }
    if text == "" {
      t.Fatalf("usedCount=%d: empty hint text", tt.usedCount)
    }
  }
}

func TestNextHintClampIsStable(t *testing.T) {
  first, tier1, _ := NextHint("urgency", 2)
  second, tier2, _ := NextHint("urgency", 50)
  if first != second || tier1 != tier2 {
    t.Fatalf("clamped hint drifted: (%q,%d) vs (%q,%d)", first, tier1, second, tier2)
  }
}

func TestNextHintUnknownWeakness(t *testing.T) {
  if _, _, ok := NextHint("bribery", 0); ok {
    t.Fatal("expected no hints for unknown weakness")
  }
}

func TestHintCountCoversAllWeaknesses(t *testing.T) {
  for _, w := range WeaknessKeys {
    if HintCount(w) == 0 {
      t.Fatalf("weakness %q has no authored hints", w)
    }
  }
}
