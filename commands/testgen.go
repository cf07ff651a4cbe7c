package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund/errors"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      proto.Message
}

// TestGenCmd generates sample protobuf and json encodings
// of various objects to test clients against.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot create %s: %s", outdir, err)
	}

	for _, ex := range examples {
		js, err := json.Marshal(ex.Obj)
		if err != nil {
			return errors.Wrapf(errors.ErrModel, "%s json: %s", ex.Filename, err)
		}
		if err := ioutil.WriteFile(filepath.Join(outdir, ex.Filename+".json"), js, 0644); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "cannot write %s: %s", ex.Filename, err)
		}

		pb, err := proto.Marshal(ex.Obj)
		if err != nil {
			return errors.Wrapf(errors.ErrModel, "%s protobuf: %s", ex.Filename, err)
		}
		if err := ioutil.WriteFile(filepath.Join(outdir, ex.Filename+".bin"), pb, 0644); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "cannot write %s: %s", ex.Filename, err)
		}
	}
	return nil
}
