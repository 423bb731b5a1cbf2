package pump

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func anchorTag(namespace, name string) [8]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

func TestInstructionDiscriminators(t *testing.T) {
	tests := []struct {
		variant Variant
		name    string
	}{
		{VariantCreate, "create"},
		{VariantBuy, "buy"},
		{VariantSell, "sell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, anchorTag("global", tt.name), tt.variant.Discriminator())
			require.Equal(t, tt.name, tt.variant.String())
		})
	}
}

func TestAccountDiscriminators(t *testing.T) {
	require.Equal(t, anchorTag("account", "Global"), GlobalDiscriminator)
	require.Equal(t, anchorTag("account", "BondingCurve"), BondingCurveDiscriminator)
}

func TestVariantOf(t *testing.T) {
	for _, v := range []Variant{VariantCreate, VariantBuy, VariantSell} {
		disc := v.Discriminator()
		got, ok := VariantOf(append(disc[:], 1, 2, 3))
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	_, ok := VariantOf([]byte{1, 2, 3})
	require.False(t, ok)
	_, ok = VariantOf(make([]byte, 16))
	require.False(t, ok)
}

func TestUnknownVariant(t *testing.T) {
	var v Variant = 42
	require.Equal(t, "unknown", v.String())
	require.Equal(t, [8]byte{}, v.Discriminator())
	require.Nil(t, v.Accounts())
}

func TestAccountsReturnsCopy(t *testing.T) {
	slots := VariantBuy.Accounts()
	slots[0].Signer = true
	require.False(t, VariantBuy.Accounts()[0].Signer)
}

func TestAccountLayouts(t *testing.T) {
	roles := func(v Variant) []Role {
		var out []Role
		for _, s := range v.Accounts() {
			out = append(out, s.Role)
		}
		return out
	}

	require.Equal(t, []Role{
		RoleMint, RoleMintAuthority, RoleBondingCurve, RoleAssociatedBondingCurve,
		RoleGlobal, RoleMplTokenMetadata, RoleMetadata, RoleUser, RoleSystemProgram,
		RoleTokenProgram, RoleAssociatedTokenProgram, RoleRent, RoleEventAuthority, RoleProgram,
	}, roles(VariantCreate))

	require.Equal(t, []Role{
		RoleGlobal, RoleFeeRecipient, RoleMint, RoleBondingCurve, RoleAssociatedBondingCurve,
		RoleAssociatedUser, RoleUser, RoleSystemProgram, RoleTokenProgram, RoleCreatorVault,
		RoleEventAuthority, RoleProgram, RoleGlobalVolumeAccumulator, RoleUserVolumeAccumulator,
		RoleFeeConfig, RoleFeeProgram,
	}, roles(VariantBuy))

	require.Equal(t, []Role{
		RoleGlobal, RoleFeeRecipient, RoleMint, RoleBondingCurve, RoleAssociatedBondingCurve,
		RoleAssociatedUser, RoleUser, RoleSystemProgram, RoleCreatorVault, RoleTokenProgram,
		RoleEventAuthority, RoleProgram, RoleFeeConfig, RoleFeeProgram,
	}, roles(VariantSell))

	// only the user and the fresh mint sign
	for _, v := range []Variant{VariantCreate, VariantBuy, VariantSell} {
		for _, s := range v.Accounts() {
			wantSigner := s.Role == RoleUser || (v == VariantCreate && s.Role == RoleMint)
			require.Equal(t, wantSigner, s.Signer, "%s %s", v, s.Role)
		}
	}
}
