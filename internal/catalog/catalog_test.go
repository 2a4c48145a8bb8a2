package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/planrisk/internal/catalog"
)

func TestDefault_Membership(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		resourceType string
		vm           bool
		network      bool
		publicIP     bool
		security     bool
	}{
		{resourceType: "azurerm_linux_virtual_machine", vm: true},
		{resourceType: "azurerm_windows_virtual_machine_scale_set", vm: true},
		{resourceType: "azurerm_virtual_network", network: true},
		{resourceType: "azurerm_network_security_group", network: true, security: true},
		{resourceType: "azurerm_managed_disk", vm: true},
		{resourceType: "azurerm_bastion_host", network: true},
		{resourceType: "azurerm_firewall", network: true, security: true},
		{resourceType: "azurerm_public_ip", publicIP: true, security: true},
		{resourceType: "azurerm_key_vault", security: true},
		{resourceType: "azurerm_policy_definition", security: true},
		{resourceType: "azurerm_storage_account"},
		{resourceType: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.resourceType, func(t *testing.T) {
			assert.Equal(t, tt.vm, c.IsVM(tt.resourceType))
			assert.Equal(t, tt.network, c.IsNetwork(tt.resourceType))
			assert.Equal(t, tt.publicIP, c.IsPublicIP(tt.resourceType))
			assert.Equal(t, tt.security, c.IsSecurity(tt.resourceType))
			assert.Equal(t, tt.vm || tt.network || tt.publicIP, c.IsHighRisk(tt.resourceType))
		})
	}
}

func TestDefault_Lists(t *testing.T) {
	c := catalog.Default()

	assert.Equal(t, []string{
		"azurerm_linux_virtual_machine",
		"azurerm_linux_virtual_machine_scale_set",
		"azurerm_managed_disk",
		"azurerm_virtual_machine",
		"azurerm_virtual_machine_data_disk_attachment",
		"azurerm_virtual_machine_scale_set",
		"azurerm_windows_virtual_machine",
		"azurerm_windows_virtual_machine_scale_set",
	}, c.VMTypes())

	assert.Equal(t, []string{
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
	}, c.NetworkTypes())

	assert.Equal(t, []string{
		"azurerm_public_ip",
		"azurerm_public_ip_prefix",
	}, c.PublicIPTypes())

	assert.Equal(t, []string{
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
	}, c.SecurityTypes())

	assert.Len(t, c.HighRiskTypes(), 31)
}

func TestNew_HighRiskIsUnion(t *testing.T) {
	c := catalog.New(
		[]string{"vm_b", "vm_a"},
		[]string{"net"},
		[]string{"pip"},
		[]string{"sec", ""},
	)

	assert.Equal(t, []string{"net", "pip", "vm_a", "vm_b"}, c.HighRiskTypes())
	assert.Equal(t, []string{"vm_a", "vm_b"}, c.VMTypes())
	assert.Equal(t, []string{"sec"}, c.SecurityTypes())
	assert.False(t, c.IsHighRisk("sec"))
}

func TestCatalogs_ListingsAreCopies(t *testing.T) {
	c := catalog.Default()
	types := c.VMTypes()
	types[0] = "mutated"

	assert.NotContains(t, c.VMTypes(), "mutated")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Formats(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected catalog.Definition
	}{
		{
			name: "native hcl",
			file: "catalog.hcl",
			content: `
mode          = "replace"
vm_types      = ["aws_instance"]
network_types = ["aws_vpc", "aws_subnet"]
`,
			expected: catalog.Definition{
				Mode:         catalog.ModeReplace,
				VMTypes:      []string{"aws_instance"},
				NetworkTypes: []string{"aws_vpc", "aws_subnet"},
			},
		},
		{
			name:    "hcl json",
			file:    "catalog.json",
			content: `{"security_types": ["aws_iam_role"], "public_ip_types": ["aws_eip"]}`,
			expected: catalog.Definition{
				PublicIPTypes: []string{"aws_eip"},
				SecurityTypes: []string{"aws_iam_role"},
			},
		},
		{
			name: "yaml",
			file: "catalog.yml",
			content: `mode: extend
vm_types:
  - google_compute_instance
`,
			expected: catalog.Definition{
				Mode:    catalog.ModeExtend,
				VMTypes: []string{"google_compute_instance"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := catalog.LoadFile(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, def)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{name: "unsupported extension", file: "catalog.toml", content: "vm_types = []", target: catalog.ErrUnsupportedFormat},
		{name: "unknown hcl attribute", file: "catalog.hcl", content: `vm_typez = ["x"]`},
		{name: "non string element", file: "catalog.hcl", content: `vm_types = ["x", 1]`},
		{name: "scalar instead of list", file: "catalog.hcl", content: `vm_types = "x"`},
		{name: "invalid hcl", file: "catalog.hcl", content: `vm_types = [`},
		{name: "unknown yaml field", file: "catalog.yaml", content: "vm_typez: [x]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.LoadFile(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := catalog.LoadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefinition_Apply(t *testing.T) {
	base := catalog.Default()

	t.Run("extend keeps built-ins", func(t *testing.T) {
		c, err := catalog.Definition{VMTypes: []string{"aws_instance"}}.Apply(base)
		require.NoError(t, err)
		assert.True(t, c.IsVM("aws_instance"))
		assert.True(t, c.IsVM("azurerm_linux_virtual_machine"))
		assert.True(t, c.IsHighRisk("aws_instance"))
		assert.False(t, base.IsVM("aws_instance"))
	})

	t.Run("replace drops built-ins", func(t *testing.T) {
		c, err := catalog.Definition{
			Mode:          catalog.ModeReplace,
			SecurityTypes: []string{"aws_iam_policy"},
		}.Apply(base)
		require.NoError(t, err)
		assert.True(t, c.IsSecurity("aws_iam_policy"))
		assert.False(t, c.IsSecurity("azurerm_key_vault"))
		assert.Empty(t, c.VMTypes())
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := catalog.Definition{Mode: "merge"}.Apply(base)
		assert.ErrorIs(t, err, catalog.ErrInvalidMode)
	})
}

func TestLoad(t *testing.T) {
	c, err := catalog.Load("")
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().HighRiskTypes(), c.HighRiskTypes())

	path := writeFile(t, "extra.hcl", `public_ip_types = ["aws_eip"]`)
	c, err = catalog.Load(path)
	require.NoError(t, err)
	assert.True(t, c.IsPublicIP("aws_eip"))
	assert.True(t, c.IsPublicIP("azurerm_public_ip"))
}
