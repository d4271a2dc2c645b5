package ingest

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"scamnews/internal/logger"
	"scamnews/internal/models"
)

type exampleArticle struct {
	Title       string
	Description string
	Category    string
	Tags        string
	Source      string
}

// exampleArticles — фиксированный набор примеров, которым наполняется база,
// когда апстрим недоступен или ключ не настроен.
var exampleArticles = []exampleArticle{
	{
		Title:       "Novo golpe usa números muito parecidos com os de bancos oficiais",
		Description: "Criminosos estão utilizando números quase idênticos aos de centrais de atendimento para enganar clientes. Especialistas alertam para sempre verificar o contato antes de responder.",
		Category:    "Phishing",
		Tags:        "Telefone,Bancos,Alerta Máximo",
		Source:      "Portal de Notícias",
	},
	{
		Title:       "Aumento expressivo de tentativas de phishing por SMS em todo o Brasil",
		Description: "SMS falsos obtêm sucesso elevado em 'desbloqueio imediato do cartão'. Ao clicar, vítimas são levadas a páginas falsas que solicitam dados bancários.",
		Category:    "SMS Falso",
		Tags:        "SMS,Dados,Urgente",
		Source:      "Agência de Notícias",
	},
	{
		Title:       "Falso atendente se passa por setor antifraude",
		Description: "Novo golpe detectado: criminosos se passam por atendentes de bancos dizendo que o cliente 'confirme dados' para cancelar 'transações suspeitas'. Bancos reforçam que nunca solicitam senhas.",
		Category:    "Engenharia Social",
		Tags:        "Telefone,Senha,Antifraude",
		Source:      "InfoSec Brasil",
	},
	{
		Title:       "Golpe do boleto falso cresce durante pagamento de impostos",
		Description: "Criminosos criam boletos adulterados com código de barras similares. Especialistas alertam para sempre verificar o destinatário antes de realizar o pagamento.",
		Category:    "Boleto Falso",
		Tags:        "Boleto,Impostos,Código de barras",
		Source:      "Economia Digital",
	},
	{
		Title:       "E-mails falsos imitam notificações de cartão de crédito",
		Description: "Golpistas enviam mensagens convincentes sobre 'cartão bloqueado', levando usuários a clicar em links falsos. Ao clicar, usuários são levados a sites que clonam credenciais.",
		Category:    "Phishing Email",
		Tags:        "E-mail,Cartão,Link Falso",
		Source:      "Tech Security",
	},
	{
		Title:       "Novo golpe do PIX faz vítimas nas redes sociais",
		Description: "Criminosos estão utilizando perfis falsos em redes sociais para aplicar golpes envolvendo transferências PIX. Vítimas são enganadas com promessas de promoções inexistentes.",
		Category:    "Golpe PIX",
		Tags:        "PIX,Redes Sociais,Promoção Falsa",
		Source:      "Segurança Digital",
	},
	{
		Title:       "Golpe do motoboy falso se espalha pelas grandes cidades",
		Description: "Falsos motoboys estão recolhendo cartões de crédito e débito em residências, alegando serem funcionários de bancos. Instituições financeiras alertam que nunca enviam motoboys para recolher cartões.",
		Category:    "Engenharia Social",
		Tags:        "Cartão,Motoboy,Presencial",
		Source:      "Notícias Urbanas",
	},
	{
		Title:       "Aplicativos falsos de bancos proliferam em lojas não oficiais",
		Description: "Pesquisadores de segurança identificaram dezenas de aplicativos falsos que imitam apps bancários legítimos. Os apps maliciosos roubam credenciais e dados financeiros dos usuários.",
		Category:    "Malware Bancário",
		Tags:        "Aplicativo,Malware,Dados",
		Source:      "Cybersecurity News",
	},
}

// seedExamples наполняет базу примерами. Дубликаты отсекаются поиском по
// подстроке заголовка — это заведомо более слабая гарантия, чем уникальность
// по url на основном пути, и сохранена намеренно: посев — best-effort.
// Ошибки отдельных записей логируются и не прерывают посев.
func (in *Ingestor) seedExamples(ctx context.Context) {
	log := logger.Log.WithField("service", "ingest")
	log.Info("Seeding example articles")

	for _, ex := range exampleArticles {
		existing, err := in.store.SearchArticles(ctx, ex.Title)
		if err != nil {
			log.Errorf("Failed to check example article: %v", err)
			continue
		}
		if len(existing) > 0 {
			continue
		}

		article := models.Article{
			Title:       ex.Title,
			Description: ex.Description,
			Category:    ex.Category,
			Tags:        ex.Tags,
			Source:      ex.Source,
			URL:         "https://exemplo.com/noticia-" + uuid.NewString()[:8],
			PublishedAt: time.Now().UTC().Add(-time.Duration(rand.Intn(48)) * time.Hour),
		}

		if _, err := in.store.SaveArticle(ctx, &article); err != nil {
			log.Errorf("Failed to save example article: %v", err)
			continue
		}
		log.WithField("title", article.Title).Info("Example article saved")
	}
}
