/*
 * ShedReport - Copyright (C) 2022 Zane van Iperen.
 *    Contact: zane@zanevaniperen.com
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

// Package shed looks repositories up in the Galaxy Tool Shed API.
package shed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRootURL is the API root of the main Galaxy tool shed.
const DefaultRootURL = "https://toolshed.g2.bx.psu.edu/api/"

const defaultTimeout = 30 * time.Second

type Client struct {
	root   string
	client *http.Client
}

func NewClient(root string, timeout time.Duration) *Client {
	if root == "" {
		root = DefaultRootURL
	}

	if !strings.HasSuffix(root, "/") {
		root += "/"
	}

	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		root:   root,
		client: &http.Client{Timeout: timeout},
	}
}

// RepositoryInfo is the catalog's view of one repository revision.
type RepositoryInfo struct {
	Description     string
	LongDescription string
	Type            string

	Deleted    bool
	Deprecated bool
	Malicious  bool
}

// Flagged reports whether the catalog considers the repository passe,
// i.e. not worth reporting on.
func (i *RepositoryInfo) Flagged() bool {
	return i.Deleted || i.Deprecated || i.Malicious
}

type repositoryRecord struct {
	Deleted         bool    `json:"deleted"`
	Deprecated      bool    `json:"deprecated"`
	Description     *string `json:"description"`
	LongDescription *string `json:"long_description"`
	Type            *string `json:"type"`
}

type revisionRecord struct {
	Malicious bool `json:"malicious"`
}

// RepositoryRevisionInfo fetches metadata for one (name, owner,
// changeset revision) triple. The API responds with a sequence of
// records; the first describes the repository, the second the revision.
func (c *Client) RepositoryRevisionInfo(name string, owner string, changesetRevision string) (*RepositoryInfo, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("owner", owner)
	q.Set("changeset_revision", changesetRevision)

	u := c.root + "repositories/get_repository_revision_install_info?" + q.Encode()

	resp, err := c.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to query tool shed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool shed response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	// The shed sometimes emits literal "\r" escapes inside JSON
	// strings, which trips the decoder. Strip them before parsing.
	// This is a workaround for an upstream encoding defect.
	raw = []byte(strings.ReplaceAll(string(raw), `\r`, ""))

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode tool shed response: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("short tool shed response: %d records", len(records))
	}

	var repo repositoryRecord
	if err := json.Unmarshal(records[0], &repo); err != nil {
		return nil, fmt.Errorf("failed to decode repository record: %w", err)
	}

	var rev revisionRecord
	if err := json.Unmarshal(records[1], &rev); err != nil {
		return nil, fmt.Errorf("failed to decode revision record: %w", err)
	}

	info := &RepositoryInfo{
		Type:       "Unknown",
		Deleted:    repo.Deleted,
		Deprecated: repo.Deprecated,
		Malicious:  rev.Malicious,
	}

	if repo.Description != nil {
		info.Description = *repo.Description
	}

	if repo.LongDescription != nil {
		info.LongDescription = *repo.LongDescription
	}

	if repo.Type != nil {
		info.Type = *repo.Type
	}

	return info, nil
}
