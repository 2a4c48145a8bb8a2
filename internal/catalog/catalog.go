// Package catalog holds the resource-type catalogs used to classify plan changes.
//
// A Catalogs value is immutable once built and can be shared between goroutines.
package catalog

import "sort"

type typeSet map[string]struct{}

func newTypeSet(types ...[]string) typeSet {
	s := make(typeSet)
	for _, list := range types {
		for _, t := range list {
			if t != "" {
				s[t] = struct{}{}
			}
		}
	}
	return s
}

func (s typeSet) has(t string) bool {
	_, ok := s[t]
	return ok
}

func (s typeSet) sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Catalogs groups resource types by the risk they carry
type Catalogs struct {
	vm       typeSet
	network  typeSet
	publicIP typeSet
	security typeSet
	highRisk typeSet
}

// New builds catalogs from explicit type lists. The high-risk set is the
// union of the VM, network and public IP lists.
func New(vm, network, publicIP, security []string) *Catalogs {
	return &Catalogs{
		vm:       newTypeSet(vm),
		network:  newTypeSet(network),
		publicIP: newTypeSet(publicIP),
		security: newTypeSet(security),
		highRisk: newTypeSet(vm, network, publicIP),
	}
}

// Default returns the built-in azurerm catalogs
func Default() *Catalogs {
	return New(defaultVMTypes, defaultNetworkTypes, defaultPublicIPTypes, defaultSecurityTypes)
}

// IsVM reports whether t is a VM/compute type
func (c *Catalogs) IsVM(t string) bool { return c.vm.has(t) }

// IsNetwork reports whether t is a network type
func (c *Catalogs) IsNetwork(t string) bool { return c.network.has(t) }

// IsPublicIP reports whether t is a public IP type
func (c *Catalogs) IsPublicIP(t string) bool { return c.publicIP.has(t) }

// IsSecurity reports whether t is security-sensitive
func (c *Catalogs) IsSecurity(t string) bool { return c.security.has(t) }

// IsHighRisk reports whether t is in the VM, network or public IP catalog
func (c *Catalogs) IsHighRisk(t string) bool { return c.highRisk.has(t) }

// VMTypes returns the VM/compute types in sorted order
func (c *Catalogs) VMTypes() []string { return c.vm.sorted() }

// NetworkTypes returns the network types in sorted order
func (c *Catalogs) NetworkTypes() []string { return c.network.sorted() }

// PublicIPTypes returns the public IP types in sorted order
func (c *Catalogs) PublicIPTypes() []string { return c.publicIP.sorted() }

// SecurityTypes returns the security-sensitive types in sorted order
func (c *Catalogs) SecurityTypes() []string { return c.security.sorted() }

// HighRiskTypes returns the union of VM, network and public IP types in sorted order
func (c *Catalogs) HighRiskTypes() []string { return c.highRisk.sorted() }

var defaultVMTypes = []string{
	"azurerm_linux_virtual_machine",
	"azurerm_linux_virtual_machine_scale_set",
	"azurerm_managed_disk",
	"azurerm_virtual_machine",
	"azurerm_virtual_machine_data_disk_attachment",
	"azurerm_virtual_machine_scale_set",
	"azurerm_windows_virtual_machine",
	"azurerm_windows_virtual_machine_scale_set",
}

var defaultNetworkTypes = []string{
	"azurerm_application_gateway",
	"azurerm_bastion_host",
	"azurerm_express_route_circuit",
	"azurerm_firewall",
	"azurerm_firewall_policy",
	"azurerm_lb",
	"azurerm_lb_rule",
	"azurerm_nat_gateway",
	"azurerm_network_interface",
	"azurerm_network_security_group",
	"azurerm_network_security_rule",
	"azurerm_private_dns_zone",
	"azurerm_private_dns_zone_virtual_network_link",
	"azurerm_private_endpoint",
	"azurerm_route",
	"azurerm_route_table",
	"azurerm_subnet",
	"azurerm_virtual_network",
	"azurerm_virtual_network_gateway",
	"azurerm_virtual_network_peering",
	"azurerm_vpn_gateway",
}

var defaultPublicIPTypes = []string{
	"azurerm_public_ip",
	"azurerm_public_ip_prefix",
}

var defaultSecurityTypes = []string{
	"azurerm_firewall",
	"azurerm_firewall_policy",
	"azurerm_firewall_policy_rule_collection_group",
	"azurerm_key_vault",
	"azurerm_key_vault_access_policy",
	"azurerm_key_vault_key",
	"azurerm_key_vault_secret",
	"azurerm_network_security_group",
	"azurerm_network_security_rule",
	"azurerm_policy_assignment",
	"azurerm_policy_definition",
	"azurerm_public_ip",
	"azurerm_public_ip_prefix",
	"azurerm_role_assignment",
	"azurerm_role_definition",
	"azurerm_user_assigned_identity",
}
