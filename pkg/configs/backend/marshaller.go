package backend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// load canopy server config from a file.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *BackendConfig, error:
//
//	When loading success, returns `(*BackendConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadBackendConfig(filepath string) (*BackendConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (out *BackendConfig, err error) {
	// trySeal panics on misconfiguration; surface that as an error
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				out, err = nil, e
			} else {
				out, err = nil, fmt.Errorf("%v", r)
			}
		}
	}()

	var _out *BackendConfigMarshall
	if err := yaml.Unmarshal(conf, &_out); err != nil {
		return nil, err
	}
	out = TrySeal(_out)
	return out, nil
}
