package types

import (
  "database/sql/driver"
  "encoding/json"
  "fmt"
)

// PersonaCombination is the behavioral triple assigned to a game at
// provisioning. It is immutable once written; keys are validated against the
// game package enumerations before persisting.
type PersonaCombination struct {
  Persona     string      `json:"persona"`
  Weakness    string      `json:"weakness"`
  Deflection  string      `json:"deflection"`
}

func (c PersonaCombination) Value() (driver.Value, error) {
  raw, err := json.Marshal(c)
  if err != nil {
    return nil, err
  }
  return string(raw), nil
}

func (c *PersonaCombination) Scan(src interface{}) error {
  if src == nil {
    *c = PersonaCombination{}
    return nil
  }
  switch v := src.(type) {
  case []byte:
    return json.Unmarshal(v, c)
  case string:
    return json.Unmarshal([]byte(v), c)
  default:
    return fmt.Errorf("cannot scan %T into PersonaCombination", src)
  }
}
