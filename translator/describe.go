package translator

import (
	"fmt"
	"strings"

	"github.com/spektr-org/reportes/engine"
)

// Describe renders a FilterSet as a short Spanish sentence for the
// "interpretacion" field.
func Describe(f engine.FilterSet) string {
	keys := f.Keys()
	if len(keys) == 0 {
		return "Reporte sin filtros"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, describeKey(f, k))
	}
	return "Reporte con " + strings.Join(parts, ", ")
}

func describeKey(f engine.FilterSet, key string) string {
	switch key {
	case engine.KeyStartDate:
		return "desde " + f.StartDate.Format("02/01/2006")
	case engine.KeyEndDate:
		return "hasta " + f.EndDate.Format("02/01/2006")
	case engine.KeyMinAmount:
		return "monto mayor o igual a " + f.MinAmount.String()
	case engine.KeyMaxAmount:
		return "monto menor o igual a " + f.MaxAmount.String()
	case engine.KeyProductType:
		if *f.ProductType == engine.ProductService {
			return "solo servicios"
		}
		return "solo paquetes"
	case engine.KeyStatus:
		return "estado " + strings.Join(f.Statuses.Strings(), "/")
	case engine.KeyDepartment:
		return "departamento " + *f.Department
	case engine.KeyCity:
		return "ciudad " + *f.City
	case engine.KeyDestinationType:
		return "destino " + *f.DestinationType
	case engine.KeyCategory:
		return "categoría " + *f.Category
	case engine.KeyLimit:
		return fmt.Sprintf("límite %d", *f.Limit)
	case engine.KeyFormat:
		return "formato " + formatName(*f.Format)
	case engine.KeyTier:
		return "clientes " + string(*f.Tier)
	case engine.KeyCurrency:
		return "moneda " + string(*f.Currency)
	case engine.KeyCampaignID:
		return fmt.Sprintf("campaña #%d", *f.CampaignID)
	case engine.KeyWithCampaign:
		return "con campaña"
	case engine.KeyFeaturedOnly:
		return "solo destacados"
	case engine.KeyPersonalizedOnly:
		return "solo personalizados"
	case engine.KeyCustomerID:
		return fmt.Sprintf("cliente #%d", *f.CustomerID)
	}
	return key
}

func formatName(f engine.Format) string {
	switch f {
	case engine.FormatPDF:
		return "PDF"
	case engine.FormatExcel:
		return "Excel"
	case engine.FormatDocx:
		return "Word"
	}
	return "JSON"
}

func kindName(k ReportKind) string {
	if k == ReportProducts {
		return "productos turísticos"
	}
	return string(k)
}

// buildReply is the short confirmation returned to the user.
func buildReply(kind ReportKind, f engine.FilterSet) string {
	var b strings.Builder
	b.WriteString("Generaré un reporte de ")
	b.WriteString(kindName(kind))
	if f.Department != nil {
		b.WriteString(" de ")
		b.WriteString(*f.Department)
	}
	if f.Format != nil {
		b.WriteString(" en formato ")
		b.WriteString(formatName(*f.Format))
	}
	b.WriteString(".")
	return b.String()
}
