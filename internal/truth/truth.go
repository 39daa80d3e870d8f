// Package truth loads the known causative genes, variants and diseases of
// each sample.
package truth

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CausativeGene is a gene known to explain a sample's phenotype.
type CausativeGene struct {
	Symbol     string `yaml:"gene_symbol"`
	Identifier string `yaml:"gene_identifier"`
}

// CausativeVariant is a variant known to explain a sample's phenotype.
type CausativeVariant struct {
	Chrom string `yaml:"chrom"`
	Pos   int64  `yaml:"pos"`
	Ref   string `yaml:"ref"`
	Alt   string `yaml:"alt"`
	Gene  string `yaml:"gene"`
}

// CausativeDisease is a diagnosed disease.
type CausativeDisease struct {
	Identifier string `yaml:"disease_identifier"`
	Name       string `yaml:"disease_name"`
}

// Sample is the ground truth for one sample.
type Sample struct {
	ID       string             `yaml:"sample_id"`
	Genes    []CausativeGene    `yaml:"genes"`
	Variants []CausativeVariant `yaml:"variants"`
	Diseases []CausativeDisease `yaml:"diseases"`
	Source   string             `yaml:"-"` // file the sample was read from
}

// Key returns the identity used for a gene in rank records.
func (g CausativeGene) Key() string {
	if g.Symbol != "" {
		return g.Symbol
	}
	return g.Identifier
}

// Key returns the identity used for a variant in rank records.
func (v CausativeVariant) Key() string {
	return v.Chrom + "-" + strconv.FormatInt(v.Pos, 10) + "-" + v.Ref + "-" + v.Alt
}

// Key returns the identity used for a disease in rank records.
func (d CausativeDisease) Key() string {
	return d.Identifier
}

// ParseError describes an invalid ground-truth document.
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "ground truth: " + e.Message
	}
	return fmt.Sprintf("ground truth %s: %s", e.Path, e.Message)
}

// LoadFile reads a ground-truth file. JSON files are accepted as YAML.
// The sample ID defaults to the file's stem.
func LoadFile(path string) (*Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ground truth: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	if s.ID == "" {
		s.ID = stem(path)
	}
	s.Source = path
	return s, nil
}

// Parse decodes and validates a ground-truth document.
func Parse(data []byte) (*Sample, error) {
	var s Sample
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	if len(s.Genes) == 0 && len(s.Variants) == 0 && len(s.Diseases) == 0 {
		return nil, &ParseError{Message: "no causative genes, variants or diseases"}
	}
	for i, g := range s.Genes {
		if g.Symbol == "" && g.Identifier == "" {
			return nil, &ParseError{Message: fmt.Sprintf("gene at index %d has no symbol or identifier", i)}
		}
	}
	for i, v := range s.Variants {
		if v.Chrom == "" || v.Pos <= 0 || v.Ref == "" {
			return nil, &ParseError{Message: fmt.Sprintf("variant at index %d needs chrom, pos and ref", i)}
		}
	}
	for i, d := range s.Diseases {
		if d.Identifier == "" {
			return nil, &ParseError{Message: fmt.Sprintf("disease at index %d has no identifier", i)}
		}
	}
	return &s, nil
}

var truthExtensions = []string{".yaml", ".yml", ".json"}

// IsTruthFile reports whether path has a ground-truth file extension.
func IsTruthFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range truthExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
