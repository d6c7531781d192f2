package negotiation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goods-gate/goods-gate/internal/domain/catalog"
)

// User-facing texts, kept in the language the dispatch desk works in.
const (
	msgAccessDenied    = "У вас немає доступу до цього бота."
	msgGreeting        = "Вітаю! Введіть, будь ласка, код товару:"
	msgProductNotFound = "Товар не знайдено. Спробуйте ще раз."
	msgInternalError   = "Внутрішня помилка. Спробуйте ще раз."
	msgLookupFailed    = "Сталася внутрішня помилка. Спробуйте ще раз."
	msgNoManager       = "Помилка: менеджер не налаштований. Зверніться до адміністратора."
	msgSentToManager   = "Ваш запит відправлено менеджеру для підтвердження."
	msgSentToDispatch  = "Ваш запит відправлено менеджерам для опрацювання, зачекайте."
	msgProcessing      = "📦 Ваше замовлення обробляється..."
	msgAnotherProduct  = "🛍 Якщо бажаєте, введіть код іншого товару для перегляду."
	msgEnterAnother    = "Введіть код іншого товару:"
	msgRejected        = "Ваш запит відхилено. Спробуйте інший товар або зверніться до менеджера."
	msgCancelled       = "❌ Ваше замовлення скасовано менеджером."
	msgPickupRejected  = "❌ Менеджер відхилив самовивіз. Обраний товар є заставним."
	msgNoPickupShops   = "На жаль, товар недоступний для самовивозу з Києва."
	msgBadLocation     = "Помилка вибору магазину. Спробуйте ще раз."
	msgReceiverAsk     = "📝 Для самовивозу потрібно вказати ФИО людини, яка буде забирати товар.\n" +
		"❗️ Ця людина повинна мати при собі документ, що підтверджує її особу.\n\n" +
		"Введіть ФИО отримувача:"
	msgReceiverTooShort = "❌ ФИО повинно містити мінімум 2 символи. Спробуйте ще раз:"
	msgAwaitManager     = "⏳ Очікуйте підтвердження від менеджера..."
	msgRequestInactive  = "Запит вже неактуальний: клієнт розпочав нове замовлення."
	msgNoShopsAvailable = "На жаль, товар недоступний в жодному магазині. Введіть код іншого товару."

	lblRequestProduct = "📩 Запросити цей товар"
	lblChangeProduct  = "🔄 Вибрати інший товар"
	lblUrgent         = "🚀 Термінове замовлення"
	lblNormal         = "⏳ Не термінове замовлення"
	lblSelfDelivery   = "🚚 Самовивіз з магазину"
	lblOrderFromShop  = "📦 Замовити товар з магазину"
	lblConfirmOrder   = "✅ Підтвердити замовлення"
	lblApprove        = "✅ Підтвердити"
	lblReject         = "❌ Відхилити"
	lblCancelOrder    = "❌ Скасувати замовлення"
	lblRejectPickup   = "❌ Відхилити самовивіз"
)

const (
	maxStockLines    = 5
	maxInterestLines = 3
	maxPledgeLines   = 2
)

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// productCaption is the short card shown to the requester.
func productCaption(p *catalog.Product) string {
	return fmt.Sprintf("📦 Код: %d\n📋 Название: %s\n💰 Ціна: %s грн", p.Code, p.Name, formatPrice(p.Price))
}

// managerCard is the full card body sent to approvers: product plus the
// client the request came from.
func managerCard(p *catalog.Product, profile *catalog.Profile, urgent bool, banner string) string {
	lines := make([]string, 0, 8)
	if banner != "" {
		lines = append(lines, banner)
	}
	lines = append(lines,
		fmt.Sprintf("📦 Код: %d", p.Code),
		fmt.Sprintf("📋 Название: %s", p.Name),
		fmt.Sprintf("💰 Ціна: %s грн", formatPrice(p.Price)),
		fmt.Sprintf("Клієнт: [ID: %d] %s (%s)", profile.AccountID, profile.AccountName, profile.DisplayName),
		fmt.Sprintf("Менеджер клієнта: %s", profile.OwnerName),
		"Терміновість: "+urgencyText(urgent),
	)
	return strings.Join(lines, "\n")
}

func urgencyText(urgent bool) string {
	if urgent {
		return "Термінове"
	}
	return "Не термінове"
}

// dispatchCard is the manager card with the availability report appended,
// capped so the message stays readable.
func dispatchCard(p *catalog.Product, profile *catalog.Profile, urgent bool, stock []catalog.StockRow, banner string) string {
	card := managerCard(p, profile, urgent, banner)
	if len(stock) == 0 {
		return card
	}
	lines := []string{card, "", "📥 Наявність у магазинах:"}
	for i, row := range stock {
		if i == maxStockLines {
			lines = append(lines, fmt.Sprintf("... та ще %d магазинів", len(stock)-maxStockLines))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s • %d шт.", row.LocationName, row.Quantity))
	}
	return strings.Join(lines, "\n")
}

// interestSection lists clients that asked about the product recently.
func interestSection(rows []catalog.InterestRow) string {
	if len(rows) == 0 {
		return ""
	}
	lines := []string{"🕵️ Цим товаром за останні два тижні цікавилися:"}
	for i, row := range rows {
		if i == maxInterestLines {
			lines = append(lines, fmt.Sprintf("... та ще %d запитів", len(rows)-maxInterestLines))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s • %s • %s • %s",
			row.Date.Format("02.01.2006"), row.AccountName, row.LocationName, row.ManagerName))
	}
	return strings.Join(lines, "\n")
}

// pledgeSection lists open pledges on the product.
func pledgeSection(rows []catalog.PledgeRow) string {
	if len(rows) == 0 {
		return ""
	}
	lines := []string{"💼 Товар зараз у заставі:"}
	for i, row := range rows {
		if i == maxPledgeLines {
			lines = append(lines, fmt.Sprintf("... та ще %d застав", len(rows)-maxPledgeLines))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s • %s • %s • %s",
			row.Date.Format("02.01.2006"), row.BranchName, row.SellerName, row.SellerPhone))
	}
	return strings.Join(lines, "\n")
}

// locationSection lists shops that hold the product.
func locationSection(locations []catalog.Location) string {
	if len(locations) == 0 {
		return ""
	}
	lines := []string{"🏪 Наявність у магазинах:"}
	for _, loc := range locations {
		lines = append(lines, fmt.Sprintf("- %s (ID: %d)", loc.Name, loc.ID))
	}
	return strings.Join(lines, "\n")
}

// pickupCard is the self-delivery approval card: product, client, the
// requester-chosen shop and the alternatives.
func pickupCard(p *catalog.Product, profile *catalog.Profile, selected *catalog.Location, candidates []catalog.Location, receiver, banner string) string {
	lines := make([]string, 0, 12)
	if banner != "" {
		lines = append(lines, banner)
	}
	lines = append(lines,
		fmt.Sprintf("📦 Код: %d", p.Code),
		fmt.Sprintf("📋 Название: %s", p.Name),
		fmt.Sprintf("💰 Ціна: %s грн", formatPrice(p.Price)),
		fmt.Sprintf("Клієнт: [ID: %d] %s (%s)", profile.AccountID, profile.AccountName, profile.DisplayName),
		fmt.Sprintf("Менеджер клієнта: %s", profile.OwnerName),
		"",
		fmt.Sprintf("📥 Обраний магазин клієнтом: %s", selected.Name),
	)
	if receiver != "" {
		lines = append(lines, fmt.Sprintf("👤 Отримувач: %s", receiver))
	}
	if len(candidates) > 0 {
		lines = append(lines, "", "📥 Доступні магазини для самовивозу:")
		for _, loc := range candidates {
			lines = append(lines, fmt.Sprintf("- %s (ID: %d)", loc.Name, loc.ID))
		}
	}
	return strings.Join(lines, "\n")
}

// completionNotice is sent to the dispatch group after a committed
// self-delivery order.
func completionNotice(p *catalog.Product, profile *catalog.Profile, selected *catalog.Location, receiver string) string {
	return strings.Join([]string{
		"✅ Клієнт підтвердив замовлення",
		fmt.Sprintf("Клієнт: %s (%s)", profile.AccountName, profile.DisplayName),
		fmt.Sprintf("Товар: %s (код: %d)", p.Name, p.Code),
		fmt.Sprintf("Магазин: %s", selected.Name),
		fmt.Sprintf("Отримувач: %s", receiver),
	}, "\n")
}

func nonEmpty(sections ...string) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
