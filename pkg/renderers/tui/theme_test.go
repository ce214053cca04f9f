package tui

import "testing"

func TestResolveTokens_DarkVariantOverrides(t *testing.T) {
	manifest := BrandManifest()

	base := ResolveTokens(manifest, "")
	dark := ResolveTokens(manifest, "dark")

	if base[tokenAccent] != dark[tokenAccent] {
		t.Errorf("accent should be shared across variants: %q vs %q", base[tokenAccent], dark[tokenAccent])
	}
	if base[tokenPrimary] == dark[tokenPrimary] {
		t.Error("dark variant should override the primary token")
	}
	if dark[tokenPrimary] != manifest.Variants["dark"].Tokens[tokenPrimary] {
		t.Errorf("dark primary = %q, want manifest override", dark[tokenPrimary])
	}
}

func TestResolveTokens_UnknownVariantFallsBack(t *testing.T) {
	manifest := BrandManifest()

	got := ResolveTokens(manifest, "sepia")
	for key, want := range manifest.Tokens {
		if got[key] != want {
			t.Errorf("token %q = %q, want base %q", key, got[key], want)
		}
	}
}
