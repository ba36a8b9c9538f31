// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package resources discovers the Azure resources belonging to a group by
// tag and deletes them.
package resources

import (
	"strings"

	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("uc.adapter.resources")

// Short service labels shared by resource counts and cost breakdowns.
const (
	ServiceVM         = "vm"
	ServiceStorage    = "storage"
	ServiceNetwork    = "network"
	ServiceDatabase   = "database"
	ServiceKeyVault   = "keyvault"
	ServiceAppService = "appservice"
	ServiceContainer  = "container"
	ServiceOther      = "other"
)

// serviceMatches is checked in order against the lower-cased name with
// spaces removed; the first matching fragment wins.
var serviceMatches = []struct {
	fragments []string
	label     string
}{
	{[]string{"compute", "virtualmachine"}, ServiceVM},
	{[]string{"storage"}, ServiceStorage},
	{[]string{"network", "bandwidth"}, ServiceNetwork},
	{[]string{"database", "sql"}, ServiceDatabase},
	{[]string{"keyvault"}, ServiceKeyVault},
	{[]string{"appservice", "web"}, ServiceAppService},
	{[]string{"container", "aks", "kubernetes"}, ServiceContainer},
}

// ServiceLabel maps an ARM resource type ("Microsoft.Compute/virtualMachines")
// or a cost management service name ("Virtual Machines") to a short label
// such as "vm". Unrecognised resource types map to their last type
// segment, unrecognised service names to their lower-cased dashed form.
func ServiceLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ServiceOther
	}
	compact := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for _, m := range serviceMatches {
		for _, fragment := range m.fragments {
			if strings.Contains(compact, fragment) {
				return m.label
			}
		}
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		if last := strings.ToLower(name[i+1:]); last != "" {
			return last
		}
		return ServiceOther
	}
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
