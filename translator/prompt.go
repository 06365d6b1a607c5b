package translator

import (
	"fmt"
	"strings"
	"time"

	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/schema"
)

// ============================================================================
// PROMPT BUILDER — Vocabulary-driven prompt for the AI interpreter
// ============================================================================
// The prompt lists the canonical filter keys and the known values of every
// vocabulary attribute. The model only translates; it never sees
// reservation data and never computes figures.
// ============================================================================

// BuildPrompt generates the system prompt for one command.
func BuildPrompt(vocab schema.Vocabulary, now time.Time, scope string) string {
	if scope == "" {
		scope = "reportes"
	}
	var b strings.Builder

	fmt.Fprintf(&b, `Eres un intérprete de comandos para un sistema de reportes de reservas turísticas en Bolivia.
Contexto: %s
FECHA ACTUAL: %s

TU ROL:
Traduce el comando del usuario a filtros estructurados. NO calcules cifras; el motor de reportes lo hace.

`, scope, now.Format("2006-01-02"))

	b.WriteString("VALORES CONOCIDOS:\n")
	writeTerms(&b, engine.KeyDepartment, vocab.Departments)
	writeTerms(&b, engine.KeyCity, vocab.Cities)
	writeTerms(&b, engine.KeyDestinationType, vocab.DestinationTypes)
	writeTerms(&b, engine.KeyCategory, vocab.Categories)
	writeTerms(&b, engine.KeyCurrency, vocab.Currencies)
	writeTerms(&b, engine.KeyTier, vocab.Tiers)
	b.WriteString("\n")

	b.WriteString(filterRules)
	b.WriteString(responseFormat)
	return b.String()
}

func writeTerms(b *strings.Builder, key string, terms []schema.Term) {
	if len(terms) == 0 {
		return
	}
	quoted := make([]string, len(terms))
	for i, v := range schema.Values(terms) {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	fmt.Fprintf(b, "- %s: [%s]\n", key, strings.Join(quoted, ", "))
}

const filterRules = `FILTROS (usa SOLO estas claves; omite las que no apliquen):
- fecha_inicio, fecha_fin: fechas YYYY-MM-DD
- monto_minimo, monto_maximo: números (ej. "mayores a 1000" → monto_minimo 1000)
- tipo_producto: "paquete" o "servicio"
- estado: lista de PENDIENTE, CONFIRMADA, PAGADA, CANCELADA, COMPLETADA, REPROGRAMADA
- departamento, ciudad, tipo_destino, categoria: un valor de VALORES CONOCIDOS
- limite: entero ("top 5" → 5)
- formato: "pdf", "excel" o "docx"
- tipo_cliente: "nuevo", "recurrente" o "vip"
- moneda: "USD" o "BOB"
- campana_id: entero; con_campana, solo_destacados, solo_personalizados: true
- cliente_id: entero

`

const responseFormat = `FORMATO DE RESPUESTA (SIEMPRE JSON válido, sin markdown):
{
  "interpretacion": "descripción breve de lo que se entendió",
  "accion": "generar_reporte|consulta|ayuda|limpiar_filtros",
  "tipo_reporte": "ventas|clientes|productos",
  "formato": "pdf|excel|docx",
  "filtros": {},
  "respuesta_texto": "respuesta breve para el usuario",
  "confianza": 0.9
}
`
