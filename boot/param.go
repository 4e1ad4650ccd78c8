package boot

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Param is the machine configuration.
type Param struct {
	// disk geometry
	DiskBlocks int `yaml:"diskblocks"`
	CacheSlots int `yaml:"cacheslots"`
	// verbose kernel trace
	Trace bool `yaml:"trace"`
}

func DefaultParam() *Param {
	return &Param{
		DiskBlocks: 1024,
		CacheSlots: 64,
	}
}

// ReadParam loads a machine configuration file, filling in defaults for
// anything it leaves out.
func ReadParam(pn string) (*Param, error) {
	param := DefaultParam()
	file, err := os.Open(pn)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	d := yaml.NewDecoder(file)
	if err := d.Decode(param); err != nil {
		return nil, err
	}
	return param, nil
}
