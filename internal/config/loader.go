package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LoadDefaults merges an optional defaults file into the options. Only
// settings that make sense as ambient defaults live there; anything given on
// the command line wins because flags are applied after this.
//
// Recognized keys:
//
//	output:
//	  format: pcap | pcapng
//	verbose: true
//	log:
//	  file: /path/to/pcapedit.log
func LoadDefaults(path string, o *Options) error {
	if path == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if v.IsSet("output.format") {
		o.OutputFormat = v.GetString("output.format")
	}
	if v.IsSet("verbose") {
		o.Verbose = v.GetBool("verbose")
	}
	if v.IsSet("log.file") {
		o.LogFile = v.GetString("log.file")
	}
	return nil
}

// LoadCommentsFile reads a YAML mapping of frame number to comment and
// merges it under the command-line comment directives (the command line
// wins for a frame present in both).
func LoadCommentsFile(path string, o *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read comments file %s: %w", path, err)
	}
	var fromFile map[uint32]string
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parse comments file %s: %w", path, err)
	}
	for frame, comment := range fromFile {
		if _, ok := o.Comments[frame]; !ok {
			o.Comments[frame] = comment
		}
	}
	return nil
}
