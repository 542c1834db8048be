// Package menu contiene las reglas puras de normalización y comparación de nombres
// del catálogo (modificadores, variaciones, secciones). Sin dependencias de infraestructura.
package menu

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator delimita variaciones y secciones en los campos de texto ("Small,Medium,Large").
const Separator = ","

// MaxModifierSlots cantidad máxima de pares (modificador, variaciones) por ítem.
const MaxModifierSlots = 3

// NoneSelected marca "sin selección" en las variaciones elegidas de una línea de pedido.
const NoneSelected = "None"

// TitleCase normaliza un nombre a formato título ("extra large" -> "Extra Large").
// cases.Caser no es seguro entre goroutines, por eso se crea en cada llamada.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// UpperCase normaliza un nombre a mayúsculas (categorías).
func UpperCase(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// ParseNames divide text por Separator, recorta, pasa a título, descarta vacíos
// y elimina duplicados conservando el orden de primera aparición.
func ParseNames(text string) []string {
	parts := strings.Split(text, Separator)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := TitleCase(p)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ParseVariations aplica ParseNames al texto de variaciones de un modificador.
func ParseVariations(text string) []string {
	return ParseNames(text)
}

// JoinNames es la inversa de ParseNames para mostrar la lista en formularios.
func JoinNames(names []string) string {
	return strings.Join(names, Separator)
}

// SetKey devuelve una clave independiente del orden para un conjunto de nombres.
func SetKey(names []string) string {
	sorted := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

// SameSet compara dos listas de nombres como conjuntos.
func SameSet(a, b []string) bool {
	return SetKey(a) == SetKey(b)
}

// ModifierKey identifica un modificador por nombre y conjunto de variaciones (regla de duplicados).
func ModifierKey(name string, variations []string) string {
	return name + "\x1e" + SetKey(variations)
}

// ChosenSet limpia las variaciones elegidas en una línea de pedido: descarta vacíos
// y el marcador NoneSelected, y normaliza a título.
func ChosenSet(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = TitleCase(n)
		if n == "" || strings.EqualFold(n, NoneSelected) {
			continue
		}
		out = append(out, n)
	}
	return out
}
