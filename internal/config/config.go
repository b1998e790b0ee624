package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション設定
type Config struct {
	FigmaToken     string `json:"figma_token" yaml:"figma_token"`
	FileKey        string `json:"file_key" yaml:"file_key"`       // 対象のFigmaファイル
	FileName       string `json:"file_name" yaml:"file_name"`     // 表示用（file select時に保存）
	UserHandle     string `json:"user_handle" yaml:"user_handle"` // メンション自動アサイン用
	DebounceMillis int    `json:"debounce_ms" yaml:"debounce_ms"` // sync連打をまとめる待ち時間
}

// DefaultDebounceMillis はsyncデバウンスの既定値
const DefaultDebounceMillis = 200

// configFileName は設定ファイル名
const configFileName = "config.json"

// configDirName は設定ディレクトリ名
const configDirName = ".fignotes"

// localOverrideName はプロジェクト直下の上書きファイル名
const localOverrideName = ".fignotes.yaml"

// Load は設定ファイルを読み込む
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{DebounceMillis: DefaultDebounceMillis}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DebounceMillis <= 0 {
		cfg.DebounceMillis = DefaultDebounceMillis
	}

	return &cfg, nil
}

// LoadWithPrecedence はグローバル設定の上にプロジェクト直下の
// .fignotes.yaml、さらに環境変数を重ねて読み込む。
// 優先順位: 環境変数 > .fignotes.yaml > ~/.fignotes/config.json
func LoadWithPrecedence() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.applyLocalOverride(); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if cfg.DebounceMillis <= 0 {
		cfg.DebounceMillis = DefaultDebounceMillis
	}

	return cfg, nil
}

func (c *Config) applyLocalOverride() error {
	data, err := os.ReadFile(localOverrideName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", localOverrideName, err)
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("failed to parse %s: %w", localOverrideName, err)
	}

	if override.FigmaToken != "" {
		c.FigmaToken = override.FigmaToken
	}
	if override.FileKey != "" {
		c.FileKey = override.FileKey
		c.FileName = override.FileName
	}
	if override.UserHandle != "" {
		c.UserHandle = override.UserHandle
	}
	if override.DebounceMillis > 0 {
		c.DebounceMillis = override.DebounceMillis
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FIGMA_TOKEN"); v != "" {
		c.FigmaToken = v
	}
	if v := os.Getenv("FIGNOTES_FILE_KEY"); v != "" {
		c.FileKey = v
	}
	if v := os.Getenv("FIGNOTES_USER"); v != "" {
		c.UserHandle = v
	}
}

// Save は設定ファイルを保存する
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	// ディレクトリ作成
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate は設定が有効かどうかを検証する
func (c *Config) Validate() error {
	if c.FigmaToken == "" {
		return fmt.Errorf("figma_token is required. Run: fignotes auth login")
	}
	if c.FileKey == "" {
		return fmt.Errorf("file is not selected. Run: fignotes file select <file-key-or-url>")
	}
	return nil
}

// IsConfigured はファイルが設定済みかどうかを返す
func (c *Config) IsConfigured() bool {
	return c.FigmaToken != "" && c.FileKey != ""
}

// StoreDir はタスク永続化に使うディレクトリを返す
func StoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, configDirName, "store"), nil
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}
