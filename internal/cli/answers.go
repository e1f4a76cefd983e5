package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/intake/pkg/domain"
)

// ReadAnswers reads an answer set from path, or from stdin when path is "-".
// Files ending in .yaml or .yml are YAML, everything else is JSON.
func ReadAnswers(path string, stdin io.Reader) (domain.Answers, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	return DecodeAnswers(data, filepath.Ext(path))
}

// DecodeAnswers decodes data by extension. JSON numbers are kept as json.Number.
func DecodeAnswers(data []byte, ext string) (domain.Answers, error) {
	answers := domain.Answers{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("invalid answers: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&answers); err != nil {
			return nil, fmt.Errorf("invalid answers: %w", err)
		}
	}
	if answers == nil {
		answers = domain.Answers{}
	}
	return answers, nil
}
