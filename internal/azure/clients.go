// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package azure builds the Azure SDK clients shared by every request.
// Clients are constructed once at startup and are safe for concurrent use.
package azure

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v3"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/msi/armmsi"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"

	"github.com/unicloud/uc-adapter-azure/internal/config"
)

var logger = loggo.GetLogger("uc.adapter.azure")

const (
	// ResourceManagerEndpoint is the public cloud ARM endpoint.
	ResourceManagerEndpoint = "https://management.azure.com"

	// GraphScope is the OAuth scope requested for Microsoft Graph.
	GraphScope = "https://graph.microsoft.com/.default"
)

// ValidateHTTPSURL returns an error unless url uses https. Bearer tokens
// must never be sent over plain HTTP.
func ValidateHTTPSURL(url string) error {
	if !strings.HasPrefix(url, "https://") {
		return errors.NotValidf("URL %q must use HTTPS", url)
	}
	return nil
}

// ValidateScope checks an ARM role assignment scope.
func ValidateScope(scope string) error {
	if strings.Contains(strings.ToLower(scope), "http://") {
		return errors.NotValidf("scope %q must not contain http://", scope)
	}
	if !strings.HasPrefix(scope, "/subscriptions/") {
		return errors.NotValidf("scope %q must start with /subscriptions/", scope)
	}
	return nil
}

// SubscriptionScope returns the ARM scope of a subscription.
func SubscriptionScope(subscriptionID string) string {
	return "/subscriptions/" + subscriptionID
}

// NewCredential returns the client secret credential described by cfg.
func NewCredential(cfg *config.Config) (azcore.TokenCredential, error) {
	cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
	if err != nil {
		return nil, errors.Annotate(err, "creating client secret credential")
	}
	return cred, nil
}

// ClientsParams holds the parameters of NewClients.
type ClientsParams struct {
	SubscriptionID string
	Credential     azcore.TokenCredential

	// ClientOptions are passed to every ARM client. May be nil.
	ClientOptions *arm.ClientOptions

	// RequestAdapter, when set, is used for Graph requests instead of an
	// adapter authenticated with Credential.
	RequestAdapter abstractions.RequestAdapter
}

// Validate checks the parameters are usable.
func (p ClientsParams) Validate() error {
	if p.SubscriptionID == "" {
		return errors.NotValidf("empty SubscriptionID")
	}
	if strings.Contains(strings.ToLower(p.SubscriptionID), "http://") {
		return errors.NotValidf("subscription ID %q", p.SubscriptionID)
	}
	if p.Credential == nil {
		return errors.NotValidf("nil Credential")
	}
	return nil
}

// Clients holds one client per Azure API used by the adapter.
type Clients struct {
	SubscriptionID string

	Graph *msgraphsdk.GraphServiceClient

	RoleDefinitions *armauthorization.RoleDefinitionsClient
	RoleAssignments *armauthorization.RoleAssignmentsClient

	Resources      *armresources.Client
	ResourceGroups *armresources.ResourceGroupsClient
	Tags           *armresources.TagsClient
	Subscriptions  *armsubscriptions.Client

	VirtualMachines   *armcompute.VirtualMachinesClient
	Interfaces        *armnetwork.InterfacesClient
	PublicIPAddresses *armnetwork.PublicIPAddressesClient
	VirtualNetworks   *armnetwork.VirtualNetworksClient
	SecurityGroups    *armnetwork.SecurityGroupsClient
	StorageAccounts   *armstorage.AccountsClient
	Vaults            *armkeyvault.VaultsClient
	Identities        *armmsi.UserAssignedIdentitiesClient

	CostQuery *armcostmanagement.QueryClient
}

// NewClients constructs every client.
func NewClients(p ClientsParams) (*Clients, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := ValidateHTTPSURL(ResourceManagerEndpoint); err != nil {
		return nil, errors.Trace(err)
	}
	sub, cred, opts := p.SubscriptionID, p.Credential, p.ClientOptions
	c := &Clients{SubscriptionID: sub}

	var err error
	if p.RequestAdapter != nil {
		c.Graph = msgraphsdk.NewGraphServiceClient(p.RequestAdapter)
	} else if c.Graph, err = msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{GraphScope}); err != nil {
		return nil, errors.Annotate(err, "creating graph client")
	}

	if c.RoleDefinitions, err = armauthorization.NewRoleDefinitionsClient(cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.RoleAssignments, err = armauthorization.NewRoleAssignmentsClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.Resources, err = armresources.NewClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.ResourceGroups, err = armresources.NewResourceGroupsClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.Tags, err = armresources.NewTagsClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.Subscriptions, err = armsubscriptions.NewClient(cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.VirtualMachines, err = armcompute.NewVirtualMachinesClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.Interfaces, err = armnetwork.NewInterfacesClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.PublicIPAddresses, err = armnetwork.NewPublicIPAddressesClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.VirtualNetworks, err = armnetwork.NewVirtualNetworksClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.SecurityGroups, err = armnetwork.NewSecurityGroupsClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.StorageAccounts, err = armstorage.NewAccountsClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.Vaults, err = armkeyvault.NewVaultsClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.Identities, err = armmsi.NewUserAssignedIdentitiesClient(sub, cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	if c.CostQuery, err = armcostmanagement.NewQueryClient(cred, opts); err != nil {
		return nil, errors.Trace(err)
	}
	logger.Debugf("created Azure clients for subscription %s", sub)
	return c, nil
}

// ProbeSubscription checks the configured subscription can be read with
// the adapter's credentials and is enabled.
func (c *Clients) ProbeSubscription(ctx context.Context) error {
	resp, err := c.Subscriptions.Get(ctx, c.SubscriptionID, nil)
	if err != nil {
		return errors.Annotatef(err, "reading subscription %s", c.SubscriptionID)
	}
	if state := resp.State; state != nil && *state != armsubscriptions.SubscriptionStateEnabled {
		return errors.Errorf("subscription %s is %s", c.SubscriptionID, *state)
	}
	return nil
}
