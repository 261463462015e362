package batch

import (
	"encoding/json"
	"strconv"
)

// Key identifies an item by its input position. A fallback key is emitted as
// the string "item<i>" instead of the bare index.
type Key struct {
	Index    int
	Fallback bool
}

func (k Key) String() string {
	if k.Fallback {
		return "item" + strconv.Itoa(k.Index)
	}
	return strconv.Itoa(k.Index)
}

func (k Key) MarshalJSON() ([]byte, error) {
	if k.Fallback {
		return json.Marshal(k.String())
	}
	return json.Marshal(k.Index)
}

func (k *Key) UnmarshalJSON(data []byte) error {
	var idx int
	if err := json.Unmarshal(data, &idx); err == nil {
		*k = Key{Index: idx}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(trimItemPrefix(s))
	if err != nil {
		return err
	}
	*k = Key{Index: n, Fallback: true}
	return nil
}

func trimItemPrefix(s string) string {
	if len(s) > 4 && s[:4] == "item" {
		return s[4:]
	}
	return s
}

// Item is one generated result. Value is "" whenever Error is set, so a
// consumer that ignores Error still renders a blank row.
type Item struct {
	Key   Key               `json:"key"`
	Value string            `json:"value"`
	Error string            `json:"error,omitempty"`
	Args  map[string]string `json:"args,omitempty"`
}

func (it Item) Failed() bool { return it.Error != "" }

// Prompt is a filled prompt body paired with the arguments that filled it.
type Prompt struct {
	Body string            `json:"body"`
	Args map[string]string `json:"args"`
}
