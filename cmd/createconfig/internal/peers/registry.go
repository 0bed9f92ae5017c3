// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package peers

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/versionrange"
)

// packument is the registry's package document, reduced to what version
// resolution needs. Version entries stay raw until one is selected.
type packument struct {
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

type versionEntry struct {
	PeerDependencies json.RawMessage `json:"peerDependencies"`
}

// fromRegistry resolves spec against the registry's package document.
func (r *Resolver) fromRegistry(ctx context.Context, spec Specifier) ([]Dependency, error) {
	doc, err := r.fetchPackument(ctx, spec.Name)
	if err != nil {
		return nil, err
	}

	version, err := resolveVersion(doc, spec)
	if err != nil {
		return nil, err
	}

	var entry versionEntry
	if err := json.Unmarshal(doc.Versions[version], &entry); err != nil {
		return nil, unavailable("decoding %s@%s: %v", spec.Name, version, err)
	}
	deps, err := decodeDependencies(entry.PeerDependencies)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return deps, nil
}

// resolveVersion maps a tag, exact version or range to a published
// version, in that order of preference.
func resolveVersion(doc *packument, spec Specifier) (string, error) {
	if v, ok := doc.DistTags[spec.Version]; ok {
		if _, ok := doc.Versions[v]; ok {
			return v, nil
		}
		return "", &NotFoundError{Name: spec.Name, Version: spec.Version}
	}
	if _, ok := doc.Versions[spec.Version]; ok {
		return spec.Version, nil
	}

	if rng, err := versionrange.Parse(spec.Version); err == nil {
		published := slices.Sorted(maps.Keys(doc.Versions))
		if v, ok := rng.MaxSatisfying(published); ok {
			return v, nil
		}
	}
	return "", &NotFoundError{Name: spec.Name, Version: spec.Version}
}

func (r *Resolver) fetchPackument(ctx context.Context, name string) (*packument, error) {
	key := r.registry + "\x00" + name
	if doc, ok := r.cache.Get(key); ok {
		return doc, nil
	}

	endpoint := strings.TrimSuffix(r.registry, "/") + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, unavailable("building request for %s: %v", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, unavailable("querying %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Name: name}
	case resp.StatusCode != http.StatusOK:
		return nil, unavailable("registry returned %s for %s", resp.Status, name)
	}

	var doc packument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, unavailable("decoding metadata for %s: %v", name, err)
	}

	r.cache.Add(key, &doc)
	return &doc, nil
}
