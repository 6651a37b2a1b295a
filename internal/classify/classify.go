package classify

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"github.com/jvilaplana/holdfolio/internal/models"
	"github.com/jvilaplana/holdfolio/internal/utils"
)

// Classification is the three-axis category assignment plus the
// economic-activity flag. Every record gets exactly one value per axis.
type Classification struct {
	InvestmentType     models.InvestmentType
	SubCategory        string
	DetailCategory     string
	IsEconomicActivity bool
}

// Classifier assigns a classification to a normalized record.
type Classifier interface {
	Classify(n Normalized) Classification
}

// economicIndicators mark descriptions of active business investments.
var economicIndicators = []string{
	"operating",
	"business",
	"startup",
	"equity",
	"shares",
	"participation",
	"manufacturing",
	"tech",
	"industrial",
}

// nonEconomicIndicators mark passive holdings. Checked before the economic
// set: a description matching both counts as non-economic.
var nonEconomicIndicators = []string{
	"bond",
	"government",
	"treasury",
	"real estate",
	"property",
	"passive",
}

// DetermineEconomicActivity flags a record as an active business investment
// from its description text, falling back to account-code prefixes from the
// Spanish general accounting plan (groups 2 and 3 hold business assets).
func DetermineEconomicActivity(description, accountCode string) bool {
	text := strings.ToLower(description)

	for _, indicator := range nonEconomicIndicators {
		if strings.Contains(text, indicator) {
			return false
		}
	}

	for _, indicator := range economicIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}

	if strings.HasPrefix(accountCode, "2") || strings.HasPrefix(accountCode, "3") {
		return true
	}

	return false
}

// keywordRule maps indicator substrings to a category label. Rules are
// evaluated in order; the first match wins.
type keywordRule struct {
	indicators []string
	label      string
}

var subCategoryRules = []keywordRule{
	{[]string{"hedge"}, "hedge_funds"},
	{[]string{"liquid", "monetario", "money market"}, "fondos_liquidos"},
	{[]string{"fondo", "fund", "sicav", "etf"}, "fondos_inversion"},
	{[]string{"inmobiliari", "real estate", "property", "propiedad"}, "propiedades_inmobiliarias"},
	{[]string{"bond", "bono", "treasury", "government", "accion", "shares", "stock"}, "valores_negociables"},
	{[]string{"mixto", "mixed"}, "mixtos"},
}

var detailCategoryRules = []keywordRule{
	{[]string{"private equity"}, "private_equity"},
	{[]string{"venture"}, "venture_capital"},
	{[]string{"deuda privada", "private debt", "loan"}, "deuda_privada"},
	{[]string{"bond", "bono", "treasury", "government", "renta fija"}, "renta_fija"},
	{[]string{"equity", "shares", "accion", "stock", "renta variable"}, "renta_variable"},
	{[]string{"infraestructura", "infrastructure"}, "infraestructura"},
	{[]string{"inmobiliari", "real estate", "property"}, "inmobiliario"},
	{[]string{"commodit", "gold", "oro"}, "commodities"},
	{[]string{"startup", "no cotizada", "participacion", "participation"}, "empresas_no_cotizadas"},
	{[]string{"arte", "joya", "artwork"}, "obras_arte"},
}

var investmentTypeRules = []keywordRule{
	{[]string{"cash", "efectivo", "liquidez", "cuenta corriente"}, string(models.TypeCash)},
	{[]string{"fondo", "fund", "sicav", "etf", "hedge"}, string(models.TypeIndirect)},
}

func matchRules(rules []keywordRule, text string) (string, bool) {
	for _, rule := range rules {
		for _, indicator := range rule.indicators {
			if strings.Contains(text, indicator) {
				return rule.label, true
			}
		}
	}
	return "", false
}

// IndicatorClassifier classifies records from their description and category
// text. Records with no matching indicator get a stable fallback assignment
// derived from a hash of their identity, so the same record always lands in
// the same bucket.
type IndicatorClassifier struct{}

func NewIndicatorClassifier() *IndicatorClassifier {
	return &IndicatorClassifier{}
}

func (c *IndicatorClassifier) Classify(n Normalized) Classification {
	text := strings.ToLower(n.Description + " " + n.Name + " " + n.RawCategory)

	subCategory, ok := matchRules(subCategoryRules, text)
	if !ok {
		subCategory = models.SubCategories[stableIndex(n, len(models.SubCategories))]
	}

	detailCategory, ok := matchRules(detailCategoryRules, text)
	if !ok {
		detailCategory = models.DetailCategories[stableIndex(n, len(models.DetailCategories))]
	}

	investmentType := models.TypeDirect
	if label, ok := matchRules(investmentTypeRules, text); ok {
		investmentType = models.InvestmentType(label)
	}

	return Classification{
		InvestmentType:     investmentType,
		SubCategory:        subCategory,
		DetailCategory:     detailCategory,
		IsEconomicActivity: DetermineEconomicActivity(n.Description, n.AccountCode),
	}
}

// stableIndex buckets a record by identity rather than by chance.
func stableIndex(n Normalized, buckets int) int {
	h := fnv.New32a()
	h.Write([]byte(n.ExternalID))
	h.Write([]byte{'|'})
	h.Write([]byte(n.Name))
	return int(h.Sum32() % uint32(buckets))
}

// RandomClassifier reproduces the legacy assignment: one uniform draw per
// record decides all four axes. Kept for compatibility with stores populated
// by the original sync; selectable via HOLDFOLIO_CLASSIFIER=random.
type RandomClassifier struct {
	rng *rand.Rand
}

// NewRandomClassifier creates a classifier around the given source. Tests
// pass a seeded source; callers wanting legacy behavior pass a time-seeded one.
func NewRandomClassifier(rng *rand.Rand) *RandomClassifier {
	return &RandomClassifier{rng: rng}
}

func (c *RandomClassifier) Classify(n Normalized) Classification {
	r := c.rng.Float64()

	investmentType := models.TypeDirect
	if r < 0.3 {
		investmentType = models.TypeIndirect
	}
	if r < 0.05 {
		investmentType = models.TypeCash
	}

	return Classification{
		InvestmentType:     investmentType,
		SubCategory:        models.SubCategories[int(math.Floor(r*float64(len(models.SubCategories))))],
		DetailCategory:     models.DetailCategories[int(math.Floor(r*float64(len(models.DetailCategories))))],
		IsEconomicActivity: r > 0.5,
	}
}

// ReturnPercentage derives the record's return from its current and original
// amounts; 0 when no original amount is known.
func ReturnPercentage(n Normalized) float64 {
	if !n.HasOriginal || n.OriginalAmount == 0 {
		return 0
	}
	return utils.RoundFloat((n.Amount-n.OriginalAmount)/n.OriginalAmount*100, 2)
}

// Assemble combines a normalized record and its classification into the
// canonical investment entity.
func Assemble(n Normalized, cl Classification) models.Investment {
	return models.Investment{
		ExternalID:         n.ExternalID,
		Name:               n.Name,
		Amount:             n.Amount,
		ReturnPercentage:   ReturnPercentage(n),
		IsEconomicActivity: cl.IsEconomicActivity,
		Category:           cl.SubCategory,
		SubCategory:        cl.SubCategory,
		DetailCategory:     cl.DetailCategory,
		InvestmentType:     cl.InvestmentType,
		AccountCode:        n.AccountCode,
		Description:        n.Description,
		SourceEndpoint:     n.SourceEndpoint,
	}
}
