// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rbac

import (
	"sort"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// Resource types a group can be granted access to.
const (
	ResourceTypeNetwork = "network"
	ResourceTypeStorage = "storage"
	ResourceTypeVM      = "vm"
)

// roleTable maps each resource type to the built-in role granting
// contributor access to it. Order is the order assignments are made in.
var roleTable = []struct {
	resourceType string
	roleName     string
}{
	{ResourceTypeNetwork, "Network Contributor"},
	{ResourceTypeStorage, "Storage Account Contributor"},
	{ResourceTypeVM, "Virtual Machine Contributor"},
}

// AvailableResourceTypes returns the resource types that can be assigned,
// in assignment order.
func AvailableResourceTypes() []string {
	types := make([]string, len(roleTable))
	for i, entry := range roleTable {
		types[i] = entry.resourceType
	}
	return types
}

// RoleName returns the built-in role granted for resourceType.
func RoleName(resourceType string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(resourceType))
	for _, entry := range roleTable {
		if entry.resourceType == key {
			return entry.roleName, nil
		}
	}
	return "", errors.NotValidf("resource type %q (available: %s)",
		resourceType, strings.Join(AvailableResourceTypes(), ", "))
}

// ValidateResourceTypes checks every entry of types is known, reporting all
// unknown entries at once.
func ValidateResourceTypes(types []string) error {
	var unknown []string
	for _, t := range types {
		if _, err := RoleName(t); err != nil {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.NotValidf("resource types %s (available: %s)",
		strings.Join(unknown, ", "), strings.Join(AvailableResourceTypes(), ", "))
}

// OrderResourceTypes lower-cases and de-duplicates types, returning the
// known ones in assignment order followed by unknown ones sorted.
func OrderResourceTypes(types []string) []string {
	requested := set.NewStrings()
	for _, t := range types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			requested.Add(t)
		}
	}
	var ordered []string
	for _, entry := range roleTable {
		if requested.Contains(entry.resourceType) {
			ordered = append(ordered, entry.resourceType)
			requested.Remove(entry.resourceType)
		}
	}
	return append(ordered, requested.SortedValues()...)
}
