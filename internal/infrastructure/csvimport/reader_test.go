package csvimport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
)

func TestRead_ConEncabezadoYModificadores(t *testing.T) {
	in := strings.Join([]string{
		"category,section,name,price,description,mod1,vars1,mod2,vars2,mod3,vars3",
		`drinks,hot,latte,4.50,Espresso con leche,size,"small, medium, large",milk,"whole, oat",,`,
		"food,bakery,croissant,3,Mantequilla",
		"",
	}, "\n")

	rows, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	latte := rows[0]
	assert.Equal(t, 2, latte.Line)
	assert.Equal(t, "drinks", latte.Category)
	assert.Equal(t, "hot", latte.Section)
	assert.Equal(t, "latte", latte.Name)
	assert.True(t, decimal.RequireFromString("4.50").Equal(latte.Price))
	assert.Equal(t, []catalog.ModifierSlot{
		{Name: "size", Variations: "small, medium, large"},
		{Name: "milk", Variations: "whole, oat"},
		{Name: "", Variations: ""},
	}, latte.Modifiers)

	assert.Equal(t, "croissant", rows[1].Name)
	assert.Empty(t, rows[1].Modifiers)
}

func TestRead_SinEncabezado(t *testing.T) {
	rows, err := Read(strings.NewReader("drinks,cold,iced tea,2.5,Té frío\n"), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Line)
}

func TestRead_PrecioIlegibleQuedaEnCero(t *testing.T) {
	rows, err := Read(strings.NewReader("drinks,cold,iced tea,abc,Té frío\n"), Options{})
	require.NoError(t, err)
	assert.True(t, rows[0].Price.IsZero())
}

func TestRead_PocasColumnas(t *testing.T) {
	_, err := Read(strings.NewReader("drinks,cold,iced tea\n"), Options{})
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestRead_Latin1(t *testing.T) {
	src := "food,bakery,pan de queso,1.2,Panadería\n"
	var buf bytes.Buffer
	w := charmap.ISO8859_1.NewEncoder().Writer(&buf)
	_, err := w.Write([]byte(src))
	require.NoError(t, err)

	rows, err := Read(&buf, Options{Latin1: true})
	require.NoError(t, err)
	assert.Equal(t, "Panadería", rows[0].Description)
}

func TestRead_SeparadorPuntoYComa(t *testing.T) {
	rows, err := Read(strings.NewReader("drinks;hot;mocha;5;Chocolate\n"), Options{Comma: ';'})
	require.NoError(t, err)
	assert.Equal(t, "mocha", rows[0].Name)
}

func TestRead_BOMSinEncabezado(t *testing.T) {
	rows, err := Read(strings.NewReader("\ufeffdrinks,Hot,Latte,4.50,\n"), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "drinks", rows[0].Category)
}

func TestRead_BOMConEncabezado(t *testing.T) {
	rows, err := Read(strings.NewReader("\ufeffcategory,section,name,price,description\ndrinks,Hot,Latte,4.50,\n"), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Line)
}

func TestRead_LineaFisicaConCampoMultilinea(t *testing.T) {
	in := strings.Join([]string{
		"category,section,name,price,description",
		`drinks,hot,latte,4.50,"Espresso`,
		`con leche"`,
		"",
		"food,bakery,croissant,3,Mantequilla",
	}, "\n")

	rows, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Espresso\ncon leche", rows[0].Description)
	assert.Equal(t, 5, rows[1].Line)
}
