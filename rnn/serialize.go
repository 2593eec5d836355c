package rnn

import (
	"encoding/json"

	"go-ml.dev/pkg/zorros"
)

/*
Serialize encodes the fitted network into a flat payload
*/
func (n *Network) Serialize() []byte {
	b, _ := json.Marshal(n)
	return b
}

/*
Deserialize restores a fitted network from a Serialize payload
*/
func Deserialize(b []byte) (*Network, error) {
	n := &Network{}
	if err := json.Unmarshal(b, n); err != nil {
		return nil, zorros.Trace(err)
	}
	if n.Hidden == 0 || len(n.Wxh) != n.Hidden*n.Width || len(n.Whh) != n.Hidden*n.Hidden {
		return nil, zorros.Errorf("damaged network payload")
	}
	return n, nil
}
