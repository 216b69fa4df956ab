// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// DefaultQueueLength is used for a file entry whose config omits
// queue_length: 16 Mi signals, matching the source filesystem's
// default.
const DefaultQueueLength = 16 * 1024 * 1024

// Config is the root of the JSON (or JSON-with-comments) document
// describing a sigfs tree.
type Config struct {
	Root                NodeConfig `json:"root"`
	InheritAccessRights bool       `json:"inherit_access_rights"`
}

// UIDAccessEntry grants or restricts one uid's read/write/cascade/
// reset access on a node.
type UIDAccessEntry struct {
	UID    uint32   `json:"uid"`
	Access []string `json:"access"`
}

// GIDAccessEntry is the gid counterpart of UIDAccessEntry.
type GIDAccessEntry struct {
	GID    uint32   `json:"gid"`
	Access []string `json:"access"`
}

// NodeConfig describes one entry in the tree: a directory if its
// source JSON carried an "entries" key (even an empty array), a file
// otherwise. The distinction is made during unmarshalling because
// Go's encoding/json gives no other way to tell "entries omitted"
// from "entries empty".
type NodeConfig struct {
	Name      string
	UIDAccess []UIDAccessEntry
	GIDAccess []GIDAccessEntry

	IsDirectory bool

	// Entries is populated, possibly empty, only when IsDirectory.
	Entries []NodeConfig

	// QueueLength is populated, defaulted to DefaultQueueLength,
	// only when !IsDirectory.
	QueueLength uint32
}

// UnmarshalJSON distinguishes a directory from a file by the presence
// of the "entries" key, per the wire format in the specification.
func (n *NodeConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        string           `json:"name"`
		UIDAccess   []UIDAccessEntry `json:"uid_access"`
		GIDAccess   []GIDAccessEntry `json:"gid_access"`
		Entries     *[]NodeConfig    `json:"entries"`
		QueueLength *uint32          `json:"queue_length"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.Name = raw.Name
	n.UIDAccess = raw.UIDAccess
	n.GIDAccess = raw.GIDAccess

	if raw.Entries != nil {
		n.IsDirectory = true
		n.Entries = *raw.Entries
		return nil
	}

	n.IsDirectory = false
	if raw.QueueLength != nil {
		n.QueueLength = *raw.QueueLength
	} else {
		n.QueueLength = DefaultQueueLength
	}
	return nil
}

// ParseConfig parses a sigfs tree configuration from JSON extended
// with // and /* */ comments and trailing commas (the same relaxed
// dialect used for on-disk config throughout the pack this tree
// package was grounded on). A strict JSON document parses unchanged.
func ParseConfig(data []byte) (*Config, error) {
	stripped := jsonc.ToJSON(data)

	var cfg Config
	if err := json.Unmarshal(stripped, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sigfs config: %w", err)
	}
	if !cfg.Root.IsDirectory {
		return nil, fmt.Errorf("parsing sigfs config: \"root\" must be a directory (carry an \"entries\" key)")
	}
	return &cfg, nil
}
