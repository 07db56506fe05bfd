package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DumpJob describes one dbdump run: which databases to dump from which
// host and where the .sql files go.
type DumpJob struct {
	Host      string   `yaml:"host"`
	Port      int      `yaml:"port"`
	User      string   `yaml:"user"`
	Databases []string `yaml:"databases"`
	OutputDir string   `yaml:"output_dir"`
}

// DiffTarget is one host whose config file confdiff compares against the
// local reference copy.
type DiffTarget struct {
	Host       string `yaml:"host"`
	RemotePath string `yaml:"remote_path"`
}

// DiffJob describes one confdiff run.
type DiffJob struct {
	Reference string       `yaml:"reference"`
	Targets   []DiffTarget `yaml:"targets"`
}

// LoadDumpJob parses a dbdump job file.
func LoadDumpJob(path string) (*DumpJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump job %s: %w", path, err)
	}

	var job DumpJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse dump job %s: %w", path, err)
	}
	if len(job.Databases) == 0 {
		return nil, fmt.Errorf("dump job %s lists no databases", path)
	}
	if job.Port == 0 {
		job.Port = 3306
	}
	if job.OutputDir == "" {
		job.OutputDir = "."
	}
	return &job, nil
}

// LoadDiffJob parses a confdiff job file.
func LoadDiffJob(path string) (*DiffJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diff job %s: %w", path, err)
	}

	var job DiffJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse diff job %s: %w", path, err)
	}
	if job.Reference == "" {
		return nil, fmt.Errorf("diff job %s has no reference file", path)
	}
	if len(job.Targets) == 0 {
		return nil, fmt.Errorf("diff job %s lists no targets", path)
	}
	return &job, nil
}
