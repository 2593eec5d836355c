package model

import (
	"io/ioutil"
	"os"

	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/zorros"
)

/*
ReadArtifact reads back a model payload written by a Training ModelFile
*/
func ReadArtifact(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer f.Close()
	zr, err := xz.NewReader(f)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	b, err := ioutil.ReadAll(zr)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	return b, nil
}
