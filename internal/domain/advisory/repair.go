package advisory

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Reparaciones típicas de JSON emitido por un LLM.
var (
	rePyTrue      = regexp.MustCompile(`\bTrue\b`)
	rePyFalse     = regexp.MustCompile(`\bFalse\b`)
	rePyNone      = regexp.MustCompile(`\b(None|NaN)\b`)
	reSingleQuote = regexp.MustCompile(`'([^']*)'`)
	reBareKey     = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	reTrailComma  = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON extrae el primer valor JSON ({...} o [...]) embebido en texto
// sucio (vallas markdown, prosa alrededor) y lo parsea tolerando las
// malformaciones habituales: comillas simples, claves sin comillas, comas
// colgantes, literales Python y cierre truncado.
//
// Es la etapa de saneamiento aislada: devuelve (nil, false) si no hay nada
// recuperable y nunca deja escapar un error más allá de su frontera.
func repairJSON(texto string) (any, bool) {
	frag, ok := extractFragment(texto)
	if !ok {
		return nil, false
	}

	var out any
	if err := json.Unmarshal([]byte(frag), &out); err == nil {
		return out, true
	}

	if err := json.Unmarshal([]byte(applyRepairs(frag)), &out); err == nil {
		return out, true
	}

	return nil, false
}

// extractFragment localiza el primer '{' o '[' y avanza hasta equilibrar
// los delimitadores, respetando strings (dobles y simples) y escapes.
// Si el texto se corta antes de cerrar, se completan los cierres pendientes.
func extractFragment(texto string) (string, bool) {
	start := strings.IndexAny(texto, "{[")
	if start < 0 {
		return "", false
	}

	var (
		stack    []byte
		inString bool
		quote    byte
		escaped  bool
	)

	for i := start; i < len(texto); i++ {
		c := texto[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				inString = false
			}
			continue
		}

		switch c {
		case '"', '\'':
			inString = true
			quote = c
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				// delimitadores cruzados: no recuperable por esta vía
				return "", false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return texto[start : i+1], true
			}
		}
	}

	// Truncado: cerramos lo que quedó abierto, en orden inverso.
	frag := strings.TrimRight(texto[start:], " \t\r\n,")
	for i := len(stack) - 1; i >= 0; i-- {
		frag += string(stack[i])
	}
	return frag, true
}

func applyRepairs(frag string) string {
	frag = rePyTrue.ReplaceAllString(frag, "true")
	frag = rePyFalse.ReplaceAllString(frag, "false")
	frag = rePyNone.ReplaceAllString(frag, "null")
	frag = reSingleQuote.ReplaceAllString(frag, `"$1"`)
	frag = reBareKey.ReplaceAllString(frag, `$1"$2":`)
	frag = reTrailComma.ReplaceAllString(frag, "$1")
	return frag
}
