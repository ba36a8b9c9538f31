// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resources

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/msi/armmsi"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/juju/errors"

	"github.com/unicloud/uc-adapter-azure/internal/azure/errorutils"
)

// ARM resource types with a dedicated deletion call. Compared
// case-insensitively.
const (
	TypeVirtualMachine       = "Microsoft.Compute/virtualMachines"
	TypeNetworkInterface     = "Microsoft.Network/networkInterfaces"
	TypePublicIPAddress      = "Microsoft.Network/publicIPAddresses"
	TypeVirtualNetwork       = "Microsoft.Network/virtualNetworks"
	TypeNetworkSecurityGroup = "Microsoft.Network/networkSecurityGroups"
	TypeStorageAccount       = "Microsoft.Storage/storageAccounts"
	TypeKeyVault             = "Microsoft.KeyVault/vaults"
	TypeUserAssignedIdentity = "Microsoft.ManagedIdentity/userAssignedIdentities"

	genericDeleteAPIVersion = "2021-04-01"
)

// DeleterClients holds the clients a Deleter dispatches to.
type DeleterClients struct {
	Resources         *armresources.Client
	VirtualMachines   *armcompute.VirtualMachinesClient
	Interfaces        *armnetwork.InterfacesClient
	PublicIPAddresses *armnetwork.PublicIPAddressesClient
	VirtualNetworks   *armnetwork.VirtualNetworksClient
	SecurityGroups    *armnetwork.SecurityGroupsClient
	StorageAccounts   *armstorage.AccountsClient
	Vaults            *armkeyvault.VaultsClient
	Identities        *armmsi.UserAssignedIdentitiesClient
}

// Validate checks every client is set.
func (c DeleterClients) Validate() error {
	switch {
	case c.Resources == nil:
		return errors.NotValidf("nil Resources")
	case c.VirtualMachines == nil:
		return errors.NotValidf("nil VirtualMachines")
	case c.Interfaces == nil:
		return errors.NotValidf("nil Interfaces")
	case c.PublicIPAddresses == nil:
		return errors.NotValidf("nil PublicIPAddresses")
	case c.VirtualNetworks == nil:
		return errors.NotValidf("nil VirtualNetworks")
	case c.SecurityGroups == nil:
		return errors.NotValidf("nil SecurityGroups")
	case c.StorageAccounts == nil:
		return errors.NotValidf("nil StorageAccounts")
	case c.Vaults == nil:
		return errors.NotValidf("nil Vaults")
	case c.Identities == nil:
		return errors.NotValidf("nil Identities")
	}
	return nil
}

// Deleter deletes a resource through the API specific to its type.
type Deleter struct {
	clients DeleterClients
}

// NewDeleter returns a Deleter.
func NewDeleter(clients DeleterClients) (*Deleter, error) {
	if err := clients.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Deleter{clients: clients}, nil
}

// Delete deletes r and waits for the deletion to finish. A resource that
// is already gone is not an error.
func (d *Deleter) Delete(ctx context.Context, r TaggedResource) error {
	if r.ID == "" || r.Type == "" {
		return errors.NotValidf("resource %q without ID or type", r.Name)
	}
	if isTyped(r.Type) && (r.ResourceGroup == "" || r.Name == "") {
		return errors.NotValidf("resource %q without resource group or name", r.ID)
	}
	err := d.delete(ctx, r)
	if errorutils.IsNotFoundError(err) {
		logger.Debugf("resource %s already deleted", r.ID)
		return nil
	}
	if err != nil {
		return errors.Annotatef(err, "deleting %s %s", r.Type, r.Name)
	}
	logger.Infof("deleted %s %s in %s", r.Type, r.Name, r.ResourceGroup)
	return nil
}

func isTyped(resourceType string) bool {
	for _, t := range []string{
		TypeVirtualMachine, TypeNetworkInterface, TypePublicIPAddress, TypeVirtualNetwork,
		TypeNetworkSecurityGroup, TypeStorageAccount, TypeKeyVault, TypeUserAssignedIdentity,
	} {
		if strings.EqualFold(resourceType, t) {
			return true
		}
	}
	return false
}

func (d *Deleter) delete(ctx context.Context, r TaggedResource) error {
	rg, name := r.ResourceGroup, r.Name
	switch {
	case strings.EqualFold(r.Type, TypeVirtualMachine):
		poller, err := d.clients.VirtualMachines.BeginDelete(ctx, rg, name, &armcompute.VirtualMachinesClientBeginDeleteOptions{
			ForceDeletion: to.Ptr(false),
		})
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err

	case strings.EqualFold(r.Type, TypeNetworkInterface):
		poller, err := d.clients.Interfaces.BeginDelete(ctx, rg, name, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err

	case strings.EqualFold(r.Type, TypePublicIPAddress):
		poller, err := d.clients.PublicIPAddresses.BeginDelete(ctx, rg, name, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err

	case strings.EqualFold(r.Type, TypeVirtualNetwork):
		poller, err := d.clients.VirtualNetworks.BeginDelete(ctx, rg, name, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err

	case strings.EqualFold(r.Type, TypeNetworkSecurityGroup):
		poller, err := d.clients.SecurityGroups.BeginDelete(ctx, rg, name, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err

	case strings.EqualFold(r.Type, TypeStorageAccount):
		_, err := d.clients.StorageAccounts.Delete(ctx, rg, name, nil)
		return err

	case strings.EqualFold(r.Type, TypeKeyVault):
		return d.deleteVault(ctx, r)

	case strings.EqualFold(r.Type, TypeUserAssignedIdentity):
		_, err := d.clients.Identities.Delete(ctx, rg, name, nil)
		return err
	}

	poller, err := d.clients.Resources.BeginDeleteByID(ctx, r.ID, genericDeleteAPIVersion, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

// deleteVault deletes a key vault and purges it, so that its name can be
// reused by a group created later.
func (d *Deleter) deleteVault(ctx context.Context, r TaggedResource) error {
	if _, err := d.clients.Vaults.Delete(ctx, r.ResourceGroup, r.Name, nil); err != nil {
		return err
	}
	if r.Location == "" {
		logger.Warningf("not purging key vault %s: unknown location", r.Name)
		return nil
	}
	poller, err := d.clients.Vaults.BeginPurgeDeleted(ctx, r.Name, r.Location, nil)
	if err == nil {
		_, err = poller.PollUntilDone(ctx, nil)
	}
	if err != nil && !errorutils.IsNotFoundError(err) {
		// Purge protection or missing permissions leave the vault soft
		// deleted, which still frees the group's resources.
		logger.Warningf("purging key vault %s: %v", r.Name, err)
	}
	return nil
}

// deletionRank orders resources so dependants go before what they depend
// on: machines, then their interfaces, then addresses and security groups,
// then networks, then everything else.
func deletionRank(resourceType string) int {
	switch {
	case strings.EqualFold(resourceType, TypeVirtualMachine):
		return 0
	case strings.EqualFold(resourceType, TypeNetworkInterface):
		return 1
	case strings.EqualFold(resourceType, TypePublicIPAddress),
		strings.EqualFold(resourceType, TypeNetworkSecurityGroup):
		return 2
	case strings.EqualFold(resourceType, TypeVirtualNetwork):
		return 3
	}
	return 4
}
