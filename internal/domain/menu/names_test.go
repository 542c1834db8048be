package menu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
)

func TestParseVariations_NormalizaYDeduplica(t *testing.T) {
	got := menu.ParseVariations(" small, MEDIUM ,,large,Small, extra large")
	assert.Equal(t, []string{"Small", "Medium", "Large", "Extra Large"}, got,
		"debe recortar, pasar a título, descartar vacíos y conservar el primer orden")
}

func TestParseVariations_TextoVacio(t *testing.T) {
	assert.Empty(t, menu.ParseVariations(""))
	assert.Empty(t, menu.ParseVariations(" , ,"))
}

func TestSameSet_IgnoraOrden(t *testing.T) {
	assert.True(t, menu.SameSet([]string{"Small", "Large"}, []string{"Large", "Small"}))
	assert.False(t, menu.SameSet([]string{"Small"}, []string{"Small", "Large"}))
	assert.True(t, menu.SameSet(nil, []string{}))
}

func TestModifierKey_DistingueNombre(t *testing.T) {
	vars := []string{"Hot", "Iced"}
	assert.Equal(t, menu.ModifierKey("Temp", vars), menu.ModifierKey("Temp", []string{"Iced", "Hot"}))
	assert.NotEqual(t, menu.ModifierKey("Temp", vars), menu.ModifierKey("Style", vars))
}

func TestChosenSet_DescartaCentinela(t *testing.T) {
	got := menu.ChosenSet([]string{"medium", "", "None", "NONE", "oat milk"})
	assert.Equal(t, []string{"Medium", "Oat Milk"}, got)
}

func TestUpperCase_Categoria(t *testing.T) {
	assert.Equal(t, "DRINKS", menu.UpperCase(" drinks "))
}
