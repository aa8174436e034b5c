package models

import "encoding/json"

// Identity - запись из admin API identities/.
// Кроме токена поля не интерпретируются и сохраняются как есть.
type Identity struct {
	Token string                     `json:"token"`
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON реализует json.Unmarshaler.
func (i *Identity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*i = Identity{}
	if tok, ok := raw["token"]; ok {
		if err := json.Unmarshal(tok, &i.Token); err != nil {
			return err
		}
		delete(raw, "token")
	}

	if len(raw) > 0 {
		i.Extra = raw
	}

	return nil
}

// IdentitiesResponse - ответ admin API identities/.
type IdentitiesResponse struct {
	Identities []Identity `json:"identities"`
}
