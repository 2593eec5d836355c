package svm

import (
	"encoding/json"

	"go-ml.dev/pkg/zorros"
)

/*
Serialize encodes the fitted classifier into a flat payload
*/
func (c *Classifier) Serialize() []byte {
	b, _ := json.Marshal(c)
	return b
}

/*
Deserialize restores a fitted classifier from a Serialize payload
*/
func Deserialize(b []byte) (*Classifier, error) {
	c := &Classifier{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, zorros.Trace(err)
	}
	if len(c.SV) == 0 || len(c.SV) != len(c.Coef) {
		return nil, zorros.Errorf("damaged classifier payload")
	}
	return c, nil
}
