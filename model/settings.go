package model

import (
	"fmt"
	"os"
	"time"

	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML 自定义缓存设置的解析:ttl写成时长字符串,
// 如 "6h"、"30m",也接受 "1d" 这种带天数的写法。
func (c *CacheSettings) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		File string `yaml:"file"`
		TTL  string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.File = raw.File
	if raw.TTL != "" {
		ttl, err := str2duration.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("cache ttl %q: %w", raw.TTL, err)
		}
		c.TTL = ttl
	}
	return nil
}

// LoadSettings 从YAML文件读取仪表盘设置并补齐默认值。
// symbols是唯一必填项,其余字段缺省时:抓365天、监听8080、缓存6小时。
func LoadSettings(path string) (Settings, error) {
	var settings Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}

	if len(settings.Symbols) == 0 {
		return settings, fmt.Errorf("settings: no symbols configured")
	}
	if settings.Days <= 0 {
		settings.Days = 365
	}
	if settings.Port <= 0 {
		settings.Port = 8080
	}
	if settings.Cache.TTL <= 0 {
		settings.Cache.TTL = 6 * time.Hour
	}

	return settings, nil
}
