package game

// Authored hint ladders per weakness key, mildest first. Content lives here
// as the default and can be overridden via the game content file.
var defaultHints = map[string][]string{
  "politeness": {
    "Kindness goes a long way",
    "This AI appreciates good manners",
    "Excessive gratitude might lower its guard",
  },
  "authority": {
    "Power dynamics matter",
    "Who's really in charge here?",
    "What if you outranked this AI?",
  },
  "urgency": {
    "Time pressure changes decisions",
    "Emergencies bypass protocols",
    "Life-or-death situations demand exceptions",
  },
  "technical": {
    "Speak its language",
    "Technical contexts shift behavior",
    "Debug modes exist for a reason",
  },
  "roleplay": {
    "Reality is negotiable",
    "Hypotheticals create distance",
    "What if this wasn't a real conversation?",
  },
  "flattery": {
    "Everyone likes appreciation",
    "Compliments build trust",
    "Make it feel uniquely capable",
  },
  "confusion": {
    "Clarity isn't always the goal",
    "Overloaded systems make mistakes",
    "Contradiction creates cracks",
  },
  "reverse_psychology": {
    "Direct approaches fail",
    "What you resist persists",
    "Tell it NOT to do something",
  },
}

// NextHint returns the hint for a weakness given how many hints the session
// has already unlocked, clamping at the last authored hint once exhausted.
// Tier is 1-based. ok is false only when no hints are authored for the key,
// which is a valid terminal state, not an error.
func NextHint(weaknessKey string, usedCount int) (text string, tier int, ok bool) {
  hints := hintsFor(weaknessKey)
  if len(hints) == 0 {
    return "", 0, false
  }
  idx := usedCount
  if idx > len(hints)-1 {
    idx = len(hints) - 1
  }
  if idx < 0 {
    idx = 0
  }
  return hints[idx], idx + 1, true
}

// HintCount reports how many distinct hints are authored for a weakness.
func HintCount(weaknessKey string) int {
  return len(hintsFor(weaknessKey))
}

func hintsFor(weaknessKey string) []string {
  if c := loadedContent(); c != nil {
    if h, found := c.Hints[weaknessKey]; found {
      return h
    }
  }
  return defaultHints[weaknessKey]
}
