package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveBuffers replaces the buffers section of the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveBuffers(configPath string, buffers []BufferConfig) error {
	if err := ValidateBuffers(buffers); err != nil {
		return err
	}

	node, err := buildBuffersNode(buffers)
	if err != nil {
		return fmt.Errorf("building buffers node: %w", err)
	}
	return saveSection(configPath, "buffers", node)
}

// AddBuffer appends a buffer to the config file's buffer list. Without a
// buffers section the defaults are written first so they are not lost.
func AddBuffer(configPath string, b BufferConfig, existing []BufferConfig) error {
	if len(existing) == 0 {
		existing = DefaultBuffers()
	}
	bufs := make([]BufferConfig, 0, len(existing)+1)
	bufs = append(bufs, existing...)
	bufs = append(bufs, b)
	return SaveBuffers(configPath, bufs)
}

// buildBuffersNode creates a yaml.Node for the buffers array.
func buildBuffersNode(buffers []BufferConfig) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(buffers); err != nil {
		return nil, err
	}
	return &node, nil
}

// saveSection sets key in the top-level mapping of configPath to value,
// creating the file if needed.
func saveSection(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // path is user-provided config
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{Kind: yaml.MappingNode},
			},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	root := doc.Content[0]
	found := false
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = value
			found = true
			break
		}
	}
	if !found {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			value,
		)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".vedit.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Marshal renders c as YAML.
func Marshal(c Config) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()
	return buf.Bytes(), nil
}
