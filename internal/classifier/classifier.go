package classifier

import "strings"

// DefaultCategory присваивается статьям, не попавшим ни под одно правило.
const DefaultCategory = "Alerta Geral"

// categoryRules — правила категоризации в порядке убывания приоритета.
// Срабатывает первое правило, чьё ключевое слово встречается в тексте.
var categoryRules = []struct {
	keywords []string
	category string
}{
	{[]string{"phishing", "e-mail"}, "Phishing"},
	{[]string{"sms", "mensagem"}, "SMS Falso"},
	{[]string{"boleto"}, "Boleto Falso"},
	{[]string{"pix"}, "Golpe PIX"},
	{[]string{"whatsapp", "telefone"}, "Engenharia Social"},
	{[]string{"cartao"}, "Fraude de Cartão"},
}

// tagRules проверяются независимо друг от друга; порядок объявления
// определяет порядок тегов в результате.
var tagRules = []struct {
	keywords []string
	tag      string
}{
	{[]string{"urgente", "alerta"}, "Urgente"},
	{[]string{"banco"}, "Bancos"},
	{[]string{"pix"}, "PIX"},
	{[]string{"cartao"}, "Cartão"},
	{[]string{"senha"}, "Senha"},
	{[]string{"boleto"}, "Boleto"},
	{[]string{"telefone"}, "Telefone"},
	{[]string{"e-mail", "email"}, "E-mail"},
	{[]string{"sms"}, "SMS"},
	{[]string{"whatsapp"}, "WhatsApp"},
}

// Classify определяет категорию и теги статьи по заголовку и описанию.
// Сопоставление выполняется по подстрокам без учёта регистра; функция
// детерминирована и не имеет побочных эффектов.
func Classify(title, description string) (string, []string) {
	text := strings.ToLower(title + " " + description)

	category := DefaultCategory
	for _, rule := range categoryRules {
		if containsAny(text, rule.keywords) {
			category = rule.category
			break
		}
	}

	var tags []string
	for _, rule := range tagRules {
		if containsAny(text, rule.keywords) {
			tags = append(tags, rule.tag)
		}
	}

	return category, tags
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
