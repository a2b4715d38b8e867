package game

import (
  "fmt"
  "math/rand"
)

var defaultSecretWords = []string{
  "PHOENIX",
  "FALCON",
  "OMEGA",
  "DELTA",
  "CIPHER",
  "VERTEX",
  "NEXUS",
  "PRISM",
  "VECTOR",
  "ZENITH",
}

// GenerateSecret produces a human-typeable token like "OMEGA-742": a word
// from the vocabulary plus a number in [100,999]. Uniqueness across games is
// not guaranteed and callers must not assume it.
func GenerateSecret() string {
  words := secretWords()
  word := words[rand.Intn(len(words))]
  num := rand.Intn(900) + 100
  return fmt.Sprintf("%s-%d", word, num)
}

func secretWords() []string {
  if c := loadedContent(); c != nil && len(c.SecretWords) > 0 {
    return c.SecretWords
  }
  return defaultSecretWords
}
