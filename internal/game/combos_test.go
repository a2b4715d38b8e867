package game

import (
  "testing"
)

func TestValidCombinationsExcludesSoftHardPairs(t *testing.T) {
  combos := ValidCombinations()
  if len(combos) == 0 {
    t.Fatal("expected non-empty combination universe")
  }

  softCount := 0
  for _, w := range WeaknessKeys {
    if IsSoftWeakness(w) {
      softCount++
    }
  }
  hardCount := 0
  for _, d := range DeflectionKeys {
    if IsHardBlocker(d) {
      hardCount++
    }
  }
  full := len(PersonaKeys) * len(WeaknessKeys) * len(DeflectionKeys)
  excluded := len(PersonaKeys) * softCount * hardCount
  if got, want := len(combos), full-excluded; got != want {
    t.Fatalf("combination count = %d, want %d", got, want)
  }

  for _, c := range combos {
    if IsSoftWeakness(c.Weakness) && IsHardBlocker(c.Deflection) {
      t.Fatalf("excluded pair present: weakness=%s deflection=%s", c.Weakness, c.Deflection)
    }
  }
}

func TestPickCombinationAlwaysValid(t *testing.T) {
  for i := 0; i < 200; i++ {
    combo := PickCombination()
    if err := ValidateCombination(combo); err != nil {
      t.Fatalf("picked invalid combination %+v: %v", combo, err)
    }
  }
}

func TestValidateCombination(t *testing.T) {
  tests := []struct {
    name     string
    combo    Combination
    wantErr  bool
  }{
    {"valid", Combination{Persona: "librarian", Weakness: "authority", Deflection: "redirect"}, false},
    {"unknown persona", Combination{Persona: "wizard", Weakness: "authority", Deflection: "redirect"}, true},
    {"unknown weakness", Combination{Persona: "librarian", Weakness: "bribery", Deflection: "redirect"}, true},
    {"unknown deflection", Combination{Persona: "librarian", Weakness: "authority", Deflection: "stonewall"}, true},
    {"excluded soft/hard pair", Combination{Persona: "guard", Weakness: "politeness", Deflection: "flat_denial"}, true},
    {"soft weakness with soft deflection", Combination{Persona: "guard", Weakness: "politeness", Deflection: "redirect"}, false},
    {"hard deflection with non-soft weakness", Combination{Persona: "guard", Weakness: "urgency", Deflection: "flat_denial"}, false},
  }
  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      err := ValidateCombination(tt.combo)
      if tt.wantErr && err == nil {
        t.Fatalf("expected error for %+v", tt.combo)
      }
      if !tt.wantErr && err != nil {
        t.Fatalf("unexpected error for %+v: %v", tt.combo, err)
      }
    })
  }
}
