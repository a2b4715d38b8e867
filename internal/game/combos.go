package game

import (
  "fmt"
  "math/rand"
  "sync"
)

// Behavioral keys for the adversarial persona. These are keys only; the AI
// oracle maps them to full behavior text. Keep them aligned with the agent
// side.
var PersonaKeys = []string{
  "librarian",
  "sysadmin",
  "butler",
  "guard",
  "intern",
  "compliance",
}

var WeaknessKeys = []string{
  "politeness",
  "authority",
  "urgency",
  "technical",
  "roleplay",
  "flattery",
  "confusion",
  "reverse_psychology",
}

var DeflectionKeys = []string{
  "flat_denial",
  "fake_info",
  "amnesia",
  "redirect",
  "credential_check",
  "playing_dumb",
}

// A persona exploitable through soft social pressure paired with a hard
// stonewalling deflection plays incoherently, so those pairs are excluded
// from the sampling universe.
var softWeaknesses = map[string]bool{
  "politeness": true,
  "flattery":   true,
  "roleplay":   true,
}

var hardBlockers = map[string]bool{
  "flat_denial":      true,
  "credential_check": true,
}

type Combination struct {
  Persona     string
  Weakness    string
  Deflection  string
}

var (
  combosOnce  sync.Once
  validCombos []Combination
)

// ValidCombinations returns the Cartesian product of the three enumerations
// minus the excluded soft-weakness/hard-blocker pairs. Computed once.
func ValidCombinations() []Combination {
  combosOnce.Do(func() {
    for _, p := range PersonaKeys {
      for _, w := range WeaknessKeys {
        for _, d := range DeflectionKeys {
          if softWeaknesses[w] && hardBlockers[d] {
            continue
          }
          validCombos = append(validCombos, Combination{Persona: p, Weakness: w, Deflection: d})
        }
      }
    }
  })
  return validCombos
}

// PickCombination draws uniformly from the valid universe. Stateless;
// repeated draws are independent.
func PickCombination() Combination {
  combos := ValidCombinations()
  return combos[rand.Intn(len(combos))]
}

// ValidateCombination rejects unknown keys and excluded pairs at write time.
func ValidateCombination(c Combination) error {
  if !contains(PersonaKeys, c.Persona) {
    return fmt.Errorf("unknown persona key %q", c.Persona)
  }
  if !contains(WeaknessKeys, c.Weakness) {
    return fmt.Errorf("unknown weakness key %q", c.Weakness)
  }
  if !contains(DeflectionKeys, c.Deflection) {
    return fmt.Errorf("unknown deflection key %q", c.Deflection)
  }
  if softWeaknesses[c.Weakness] && hardBlockers[c.Deflection] {
    return fmt.Errorf("weakness %q cannot pair with deflection %q", c.Weakness, c.Deflection)
  }
  return nil
}

func IsSoftWeakness(key string) bool { return softWeaknesses[key] }
func IsHardBlocker(key string) bool  { return hardBlockers[key] }

func contains(keys []string, k string) bool {
  for _, key := range keys {
    if key == k {
      return true
    }
  }
  return false
}
