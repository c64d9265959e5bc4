package chatbot

import (
	"fmt"
	"regexp"
	"strings"
)

// Icon distingue la vía de administración al renderizar la medicación.
type Icon string

const (
	IconInyectable Icon = "💉"
	IconOral       Icon = "💊"
)

// Mention es una medicación detectada en el plan de tratamiento.
// No se persiste: se usa transitoriamente para renderizar una línea.
type Mention struct {
	Nombre     string
	Dosis      string // "15 mg" o vacío
	Frecuencia string // "semanal", "los viernes"... o vacío
	Icono      Icon
}

type medEntry struct {
	nombre    string
	variantes []string
	icono     Icon
}

// Tabla fija de medicamentos soportados. El orden importa: la salida del
// extractor sigue este orden, no el de aparición en el texto.
var medicamentos = []medEntry{
	{nombre: "Metotrexato", variantes: []string{"metotrexato", "metotrexate", "mtx"}, icono: IconInyectable},
	{nombre: "Ácido Fólico", variantes: []string{"ácido fólico", "acido folico", "ac fólico", "ac folico", "acfol"}, icono: IconOral},
	{nombre: "Ibuprofeno", variantes: []string{"ibuprofeno", "ibuprofen"}, icono: IconOral},
	{nombre: "Naproxeno", variantes: []string{"naproxeno"}, icono: IconOral},
	{nombre: "Prednisona", variantes: []string{"prednisona", "prednisone", "corticoide"}, icono: IconOral},
	{nombre: "Adalimumab (Humira)", variantes: []string{"adalimumab", "humira"}, icono: IconInyectable},
	{nombre: "Tocilizumab", variantes: []string{"tocilizumab", "actemra"}, icono: IconInyectable},
	{nombre: "Etanercept", variantes: []string{"etanercept", "enbrel"}, icono: IconInyectable},
}

// patrones de dosis pre-compilados por variante: número con separador
// decimal '.' o ',' seguido de mg, anclado tras la variante.
var dosisPatterns = buildDosisPatterns()

func buildDosisPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, med := range medicamentos {
		for _, v := range med.variantes {
			out[v] = regexp.MustCompile(regexp.QuoteMeta(v) + `[^\d]*(\d+(?:[.,]\d+)?)\s*mg`)
		}
	}
	return out
}

var diasSemana = []string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"}

// Extract escanea el texto de un plan buscando medicamentos conocidos y, si
// puede, su dosis y frecuencia. Devuelve nil cuando no encuentra ninguno
// (señal distinta de "encontrado pero sin dosis parseable").
//
// Reglas:
//   - match case-insensitive por substring de cualquier variante
//   - como mucho una mención por fármaco canónico; la primera variante de la
//     tabla que aparezca corta la búsqueda de ese fármaco
//   - la frecuencia se infiere de una ventana de 100 caracteres tras la
//     primera aparición de la variante; primera palabra clave de la tabla
//     que matchee gana (no la más específica)
func Extract(planTexto string) []Mention {
	if strings.TrimSpace(planTexto) == "" {
		return nil
	}

	textoLower := strings.ToLower(planTexto)
	var menciones []Mention

	for _, med := range medicamentos {
		for _, variante := range med.variantes {
			idx := strings.Index(textoLower, variante)
			if idx < 0 {
				continue
			}

			dosis := ""
			if m := dosisPatterns[variante].FindStringSubmatch(textoLower); m != nil {
				dosis = m[1] + " mg"
			}

			fin := idx + 100
			if fin > len(textoLower) {
				fin = len(textoLower)
			}
			contexto := textoLower[idx:fin]

			menciones = append(menciones, Mention{
				Nombre:     med.nombre,
				Dosis:      dosis,
				Frecuencia: detectarFrecuencia(contexto),
				Icono:      med.icono,
			})
			break // no buscar más variantes de este fármaco
		}
	}

	return menciones
}

// detectarFrecuencia prueba las palabras clave en orden fijo: gana la
// primera que aparezca en el contexto, no la más larga ni la más específica.
func detectarFrecuencia(contexto string) string {
	switch {
	case strings.Contains(contexto, "semanal"):
		return "semanal"
	case strings.Contains(contexto, "diario"),
		strings.Contains(contexto, "cada día"),
		strings.Contains(contexto, "/día"):
		return "diario"
	case strings.Contains(contexto, "quincenal"),
		strings.Contains(contexto, "cada 2 semanas"):
		return "cada 2 semanas"
	case strings.Contains(contexto, "cada 8 horas"):
		return "cada 8 horas"
	case strings.Contains(contexto, "cada 12 horas"):
		return "cada 12 horas"
	}

	for _, dia := range diasSemana {
		if strings.Contains(contexto, dia) {
			return "los " + dia + "s"
		}
	}

	return ""
}

// FormatLine renderiza una mención como línea de chat:
// "💉 **Metotrexato** 15 mg (semanal)".
func FormatLine(m Mention) string {
	line := fmt.Sprintf("%s **%s**", m.Icono, m.Nombre)
	if m.Dosis != "" {
		line += " " + m.Dosis
	}
	if m.Frecuencia != "" {
		line += " (" + m.Frecuencia + ")"
	}
	return line
}
