package negotiation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/goods-gate/goods-gate/internal/domain/catalog"
	"github.com/goods-gate/goods-gate/internal/domain/chat"
	domainNegotiation "github.com/goods-gate/goods-gate/internal/domain/negotiation"
	"github.com/goods-gate/goods-gate/internal/domain/order"
	"github.com/goods-gate/goods-gate/internal/domain/session"
)

const minReceiverNameLen = 2

// Router is the negotiation core: it validates inbound events against the
// per-requester state machine, mutates session and registry state, fans
// prompts out to approver groups and commits confirmed orders against the
// fulfilment backend. The first successful registry claim on a negotiation
// key wins; every later decision on the same key is acknowledged with the
// winning outcome and causes no side effects.
type Router struct {
	sessions  session.Store
	registry  domainNegotiation.Registry
	directory catalog.Directory
	backend   order.Backend
	sender    chat.Sender
	fanout    *Fanout
	policy    *Policy
	primary   []int64
	secondary []int64
	logger    zerolog.Logger
}

func NewRouter(
	sessions session.Store,
	registry domainNegotiation.Registry,
	directory catalog.Directory,
	backend order.Backend,
	sender chat.Sender,
	fanout *Fanout,
	policy *Policy,
	primary []int64,
	secondary []int64,
	logger zerolog.Logger,
) *Router {
	return &Router{
		sessions:  sessions,
		registry:  registry,
		directory: directory,
		backend:   backend,
		sender:    sender,
		fanout:    fanout,
		policy:    policy,
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("service", "negotiation").Logger(),
	}
}

// Start handles first contact: verify access, greet or deny.
func (r *Router) Start(ctx context.Context, requesterID int64) error {
	profile, err := r.authorize(ctx, requesterID)
	if err != nil {
		return r.deny(ctx, requesterID, err)
	}
	r.sessions.Mutate(requesterID, func(s *session.Session) {
		s.Context = profile
	})
	r.sendText(ctx, requesterID, msgGreeting)
	return nil
}

// HandleText routes a free-text requester message. Interpretation follows
// the session state: only StateReceiverName reads it as a receiver name,
// otherwise a numeric message is a product code and everything else is
// ignored.
func (r *Router) HandleText(ctx context.Context, requesterID int64, text string) error {
	text = strings.TrimSpace(text)
	if sess, ok := r.sessions.Get(requesterID); ok && sess.State == session.StateReceiverName {
		return r.submitReceiverName(ctx, sess, text)
	}
	if code, err := strconv.ParseInt(text, 10, 64); err == nil && code > 0 {
		return r.SubmitProductCode(ctx, requesterID, code)
	}
	r.logger.Debug().Int64("requester_id", requesterID).Msg("ignoring free text outside input state")
	return nil
}

// SubmitProductCode starts a fresh negotiation: any prior state for the
// requester is fully reset first so a stale decision can never leak in.
func (r *Router) SubmitProductCode(ctx context.Context, requesterID, code int64) error {
	profile, err := r.authorize(ctx, requesterID)
	if err != nil {
		return r.deny(ctx, requesterID, err)
	}
	r.reset(requesterID, profile.AccountID)

	product, err := r.directory.LookupProduct(ctx, code)
	if err != nil {
		r.sendText(ctx, requesterID, msgLookupFailed)
		return fmt.Errorf("lookup product %d: %w", code, err)
	}
	if product == nil {
		r.sendText(ctx, requesterID, msgProductNotFound)
		return nil
	}

	r.sessions.Mutate(requesterID, func(s *session.Session) {
		s.Clear()
		s.Context = profile
		s.ProductCode = code
		s.State = session.StateProductShown
	})

	_, err = r.sender.SendPrompt(ctx, requesterID, chat.Prompt{
		Text:     productCaption(product),
		PhotoURL: product.PhotoURL,
		Choices: []chat.Choice{
			{Label: lblRequestProduct, Data: DataRequestProduct},
			{Label: lblChangeProduct, Data: DataChangeProduct},
		},
	})
	return err
}

// ChangeProduct abandons the current negotiation and asks for another code.
func (r *Router) ChangeProduct(ctx context.Context, requesterID int64) error {
	if sess, ok := r.sessions.Get(requesterID); ok && sess.Context != nil {
		r.reset(requesterID, sess.Context.AccountID)
	}
	r.sendText(ctx, requesterID, msgEnterAnother)
	return nil
}

// RequestProduct shows the order-type choices for the shown product.
// Self-delivery is offered only to eligible accounts.
func (r *Router) RequestProduct(ctx context.Context, requesterID int64) error {
	sess, ok := r.sessions.Get(requesterID)
	if !ok || sess.Context == nil || sess.ProductCode == 0 {
		r.sendText(ctx, requesterID, msgInternalError)
		return nil
	}
	r.registry.ClearAccount(sess.Context.AccountID)

	choices := []chat.Choice{
		{Label: lblUrgent, Data: DataUrgent},
		{Label: lblNormal, Data: DataNormal},
	}
	if sess.Context.SelfDelivery {
		choices = append(choices, chat.Choice{Label: lblSelfDelivery, Data: DataSelfDelivery})
	}
	r.sessions.Mutate(requesterID, func(s *session.Session) {
		s.Urgency = session.UrgencyUnset
		s.SelfDelivery = false
		s.SelectedLocation = nil
		s.ReceiverName = ""
		s.State = session.StateOrderTypeChoice
	})
	_, err := r.sender.SendPrompt(ctx, requesterID, chat.Prompt{
		Text:    "Оберіть тип замовлення:",
		Choices: choices,
	})
	return err
}

// ChooseUrgency records the order type and routes the request to the right
// approver group based on the brand-sensitivity policy.
func (r *Router) ChooseUrgency(ctx context.Context, requesterID int64, urgent bool) error {
	sess, ok := r.sessions.Get(requesterID)
	if !ok || sess.Context == nil || sess.ProductCode == 0 {
		r.sendText(ctx, requesterID, msgInternalError)
		return nil
	}
	product, err := r.directory.LookupProduct(ctx, sess.ProductCode)
	if err != nil {
		r.sendText(ctx, requesterID, msgLookupFailed)
		return fmt.Errorf("lookup product %d: %w", sess.ProductCode, err)
	}
	if product == nil {
		r.sendText(ctx, requesterID, msgProductNotFound)
		return nil
	}

	urgency := session.UrgencyNormal
	if urgent {
		urgency = session.UrgencyUrgent
	}
	r.sessions.Mutate(requesterID, func(s *session.Session) {
		s.Urgency = urgency
	})
	sess.Urgency = urgency

	sensitive, err := r.policy.Sensitive(ctx, product)
	if err != nil {
		r.sendText(ctx, requesterID, msgLookupFailed)
		return fmt.Errorf("brand policy for %d: %w", product.Code, err)
	}
	if sensitive {
		return r.startSensitiveApproval(ctx, sess, product)
	}
	r.sendText(ctx, requesterID, msgSentToDispatch)
	return r.startShopSelection(ctx, sess, product, "🔔 Клієнт зацікавився товаром")
}

// ChooseSelfDelivery lists candidate pickup shops for the requester.
func (r *Router) ChooseSelfDelivery(ctx context.Context, requesterID int64) error {
	sess, ok := r.sessions.Get(requesterID)
	if !ok || sess.Context == nil || sess.ProductCode == 0 {
		r.sendText(ctx, requesterID, msgInternalError)
		return nil
	}
	candidates, err := r.directory.LookupCandidateLocations(ctx, sess.ProductCode, catalog.FilterSelfDelivery)
	if err != nil {
		r.sendText(ctx, requesterID, msgLookupFailed)
		return fmt.Errorf("pickup candidates for %d: %w", sess.ProductCode, err)
	}
	if len(candidates) == 0 {
		r.sendText(ctx, requesterID, msgNoPickupShops)
		return nil
	}

	choices := make([]chat.Choice, 0, len(candidates)+1)
	for i, loc := range candidates {
		choices = append(choices, chat.Choice{
			Label: fmt.Sprintf("%d. %s", i+1, loc.Name),
			Data:  PickLocationData(loc.ID),
		})
	}
	choices = append(choices, chat.Choice{Label: lblChangeProduct, Data: DataChangeProduct})

	r.sessions.Mutate(requesterID, func(s *session.Session) {
		s.SelfDelivery = true
		s.State = session.StateLocationChoice
	})
	_, err = r.sender.SendPrompt(ctx, requesterID, chat.Prompt{
		Text:    "Оберіть магазин для самовивозу з Києва:",
		Choices: choices,
	})
	return err
}

// SelectLocation stores the requester-chosen pickup shop.
func (r *Router) SelectLocation(ctx context.Context, requesterID, locationID int64) error {
	sess, ok := r.sessions.Get(requesterID)
	if !ok || sess.Context == nil || sess.ProductCode == 0 {
		r.sendText(ctx, requesterID, msgInternalError)
		return nil
	}
	candidates, err := r.directory.LookupCandidateLocations(ctx, sess.ProductCode, catalog.FilterSelfDelivery)
	if err != nil {
		r.sendText(ctx, requesterID, msgLookupFailed)
		return fmt.Errorf("pickup candidates for %d: %w", sess.ProductCode, err)
	}
	selected := findLocation(candidates, locationID)
	if selected == nil {
		r.sendText(ctx, requesterID, msgBadLocation)
		return nil
	}

	r.sessions.Mutate(requesterID, func(s *session.Session) {
		s.SelfDelivery = true
		s.SelectedLocation = selected
		s.State = session.StateLocationChosen
	})
	r.sendText(ctx, requesterID, fmt.Sprintf("Ви обрали магазин: %s", selected.Name))
	_, err = r.sender.SendPrompt(ctx, requesterID, chat.Prompt{
		Text: "Що бажаєте зробити далі?",
		Choices: []chat.Choice{
			{Label: lblOrderFromShop, Data: DataOrderFromLocation},
			{Label: lblChangeProduct, Data: DataChangeProduct},
		},
	})
	return err
}

// OrderFromLocation asks for the receiver name before the pickup request
// goes to the dispatch group.
func (r *Router) OrderFromLocation(ctx context.Context, requesterID int64) error {
	sess, ok := r.sessions.Get(requesterID)
	if !ok || sess.Context == nil || sess.ProductCode == 0 || sess.SelectedLocation == nil {
		r.sendText(ctx, requesterID, msgInternalError)
		return nil
	}
	r.sessions.Mutate(requesterID, func(s *session.Session) {
		s.State = session.StateReceiverName
	})
	r.sendText(ctx, requesterID, msgReceiverAsk)
	return nil
}

// submitReceiverName validates the free-text receiver name and fans the
// pickup request out to the dispatch group. Too-short names re-prompt
// without touching the selected location.
func (r *Router) submitReceiverName(ctx context.Context, sess *session.Session, name string) error {
	if utf8.RuneCountInString(name) < minReceiverNameLen {
		r.sendText(ctx, sess.RequesterID, msgReceiverTooShort)
		return nil
	}
	if sess.Context == nil || sess.ProductCode == 0 || sess.SelectedLocation == nil {
		r.sendText(ctx, sess.RequesterID, msgInternalError)
		return nil
	}
	product, err := r.directory.LookupProduct(ctx, sess.ProductCode)
	if err != nil || product == nil {
		r.sendText(ctx, sess.RequesterID, msgLookupFailed)
		if err != nil {
			return fmt.Errorf("lookup product %d: %w", sess.ProductCode, err)
		}
		return nil
	}
	candidates, err := r.directory.LookupCandidateLocations(ctx, sess.ProductCode, catalog.FilterSelfDelivery)
	if err != nil {
		r.sendText(ctx, sess.RequesterID, msgLookupFailed)
		return fmt.Errorf("pickup candidates for %d: %w", sess.ProductCode, err)
	}

	key := domainNegotiation.Key{
		Kind:        domainNegotiation.KindSelfDelivery,
		AccountID:   sess.Context.AccountID,
		ProductCode: sess.ProductCode,
		LocationID:  sess.SelectedLocation.ID,
	}
	choices := []chat.Choice{{
		Label: fmt.Sprintf("✅ Підтвердити самовивіз з %s", sess.SelectedLocation.Name),
		Data:  EncodeDecisionData(domainNegotiation.ActionConfirmLocation, key, sess.SelectedLocation.ID),
	}}
	for _, loc := range candidates {
		if loc.ID == sess.SelectedLocation.ID {
			continue
		}
		choices = append(choices, chat.Choice{
			Label: fmt.Sprintf("🔄 Змінити на %s", loc.Name),
			Data:  EncodeDecisionData(domainNegotiation.ActionChangeLocation, key, loc.ID),
		})
	}
	choices = append(choices, chat.Choice{
		Label: lblRejectPickup,
		Data:  EncodeDecisionData(domainNegotiation.ActionReject, key, 0),
	})

	prompt := chat.Prompt{
		Text:     pickupCard(product, sess.Context, sess.SelectedLocation, candidates, name, "Самовивіз товару потребує підтвердження якості товару"),
		PhotoURL: product.PhotoURL,
		Choices:  choices,
	}
	if _, err := r.fanout.Broadcast(ctx, r.secondary, prompt); err != nil {
		if errors.Is(err, domainNegotiation.ErrNoApprovers) {
			r.sendText(ctx, sess.RequesterID, msgNoManager)
		}
		return fmt.Errorf("pickup fan-out for %s: %w", key.Encode(), err)
	}

	r.sessions.Mutate(sess.RequesterID, func(s *session.Session) {
		s.ReceiverName = name
		s.State = session.StateSelfDeliveryPending
	})
	r.sendText(ctx, sess.RequesterID, fmt.Sprintf("✅ ФИО отримувача збережено: %s", name))
	r.sendText(ctx, sess.RequesterID, msgAwaitManager)
	return nil
}

// ConfirmOrder is the requester's explicit final confirmation of an
// approved self-delivery order. This is the commit point.
func (r *Router) ConfirmOrder(ctx context.Context, requesterID int64) error {
	sess, ok := r.sessions.Get(requesterID)
	if !ok || sess.State != session.StateFinalConfirmation ||
		sess.Context == nil || sess.ProductCode == 0 || sess.SelectedLocation == nil {
		r.sendText(ctx, requesterID, msgInternalError)
		return nil
	}

	result, err := r.backend.Execute(ctx, order.Request{
		AccountID:   sess.Context.AccountID,
		ProductCode: sess.ProductCode,
		EmployeeID:  sess.Context.EmployeeID,
		Urgent:      true,
		Receiver:    sess.ReceiverName,
		LocationID:  sess.SelectedLocation.ID,
	})
	if err != nil {
		r.sendText(ctx, requesterID, fmt.Sprintf("Помилка обробки: %v", err))
		r.reset(requesterID, sess.Context.AccountID)
		return fmt.Errorf("execute pickup order for account %d: %w", sess.Context.AccountID, err)
	}
	r.sendText(ctx, requesterID, result)

	if product, lerr := r.directory.LookupProduct(ctx, sess.ProductCode); lerr == nil && product != nil {
		r.fanout.Notify(ctx, r.secondary, completionNotice(product, sess.Context, sess.SelectedLocation, sess.ReceiverName))
	} else if lerr != nil {
		r.logger.Warn().Err(lerr).Int64("code", sess.ProductCode).Msg("completion notice lookup failed")
	}

	r.sendText(ctx, requesterID, msgAnotherProduct)
	r.reset(requesterID, sess.Context.AccountID)
	return nil
}

// HandleDecision is the single entry point for approver actions. The first
// claim on the negotiation key wins; losers are acknowledged with the
// winning outcome instead of silence.
func (r *Router) HandleDecision(ctx context.Context, ev domainNegotiation.DecisionEvent) error {
	log := r.logger.With().
		Str("key", ev.Key.Encode()).
		Str("action", string(ev.Action)).
		Int64("approver_id", ev.ApproverID).
		Logger()

	if !ev.Key.Kind.Valid() || !ev.Action.AllowedFor(ev.Key.Kind) {
		log.Warn().Msg("dropping malformed decision payload")
		return fmt.Errorf("decision %q on %q: %w", ev.Action, ev.Key.Kind, domainNegotiation.ErrInvalidInput)
	}

	sess, ok := r.sessions.FindByAccount(ev.Key.AccountID)
	if !ok || sess.Context == nil {
		log.Warn().Msg("no session for decision account")
		r.sendText(ctx, ev.ApproverID, msgRequestInactive)
		return nil
	}
	if sess.ProductCode != ev.Key.ProductCode || sess.State != pendingState(ev.Key.Kind) {
		// The prompt was superseded by a session reset; its buttons are dead.
		log.Info().Str("state", string(sess.State)).Msg("decision on superseded negotiation")
		r.sendText(ctx, ev.ApproverID, msgRequestInactive)
		return nil
	}

	winner, claimed := r.registry.TryClaim(ev.Key, domainNegotiation.Resolution{
		Action:     ev.Action,
		ApproverID: ev.ApproverID,
		LocationID: ev.LocationID,
	})
	if !claimed {
		log.Info().Str("winning_action", string(winner.Action)).Msg("late decision, already resolved")
		r.sendText(ctx, ev.ApproverID, alreadyDecidedText(winner))
		return nil
	}

	// Re-validate after winning. A concurrent reset can prune the record
	// between the state check above and the claim, so the claim may be
	// freshly won on a negotiation that is already closed. The session reset
	// completes before the record is pruned, so a closed negotiation is
	// always visible here.
	sess, ok = r.sessions.FindByAccount(ev.Key.AccountID)
	if !ok || sess.Context == nil || sess.ProductCode != ev.Key.ProductCode || sess.State != pendingState(ev.Key.Kind) {
		log.Info().Msg("claim won on a closed negotiation")
		r.sendText(ctx, ev.ApproverID, msgRequestInactive)
		return nil
	}

	switch ev.Key.Kind {
	case domainNegotiation.KindSensitiveApproval:
		return r.resolveSensitiveApproval(ctx, sess, ev)
	case domainNegotiation.KindShopSelection:
		return r.resolveShopSelection(ctx, sess, ev)
	default:
		return r.resolveSelfDelivery(ctx, sess, ev)
	}
}

// startSensitiveApproval fans the full-detail card (interest history,
// pledge status, availability) out to the primary group.
func (r *Router) startSensitiveApproval(ctx context.Context, sess *session.Session, product *catalog.Product) error {
	code := product.Code
	interest, err := r.directory.LookupInterestHistory(ctx, code)
	if err != nil {
		r.logger.Warn().Err(err).Int64("code", code).Msg("interest history lookup failed")
	}
	pledges, err := r.directory.LookupPledgeStatus(ctx, code)
	if err != nil {
		r.logger.Warn().Err(err).Int64("code", code).Msg("pledge status lookup failed")
	}
	shops, err := r.directory.LookupCandidateLocations(ctx, code, catalog.FilterAll)
	if err != nil {
		r.logger.Warn().Err(err).Int64("code", code).Msg("shop list lookup failed")
	}

	key := domainNegotiation.Key{
		Kind:        domainNegotiation.KindSensitiveApproval,
		AccountID:   sess.Context.AccountID,
		ProductCode: code,
	}
	prompt := chat.Prompt{
		Text:     managerCard(product, sess.Context, sess.Urgency.Urgent(), "🔔 Клієнт зацікавився товаром (чутливий бренд)"),
		PhotoURL: product.PhotoURL,
		Sections: nonEmpty(interestSection(interest), pledgeSection(pledges), locationSection(shops)),
		Choices: []chat.Choice{
			{Label: lblApprove, Data: EncodeDecisionData(domainNegotiation.ActionApprove, key, 0)},
			{Label: lblReject, Data: EncodeDecisionData(domainNegotiation.ActionReject, key, 0)},
		},
	}
	if _, err := r.fanout.Broadcast(ctx, r.primary, prompt); err != nil {
		if errors.Is(err, domainNegotiation.ErrNoApprovers) {
			r.sendText(ctx, sess.RequesterID, msgNoManager)
		}
		return fmt.Errorf("sensitive fan-out for %s: %w", key.Encode(), err)
	}

	r.sessions.Mutate(sess.RequesterID, func(s *session.Session) {
		s.State = session.StateSensitivePending
	})
	r.sendText(ctx, sess.RequesterID, msgSentToManager)
	return nil
}

// startShopSelection fans a shop-choice prompt out to the dispatch group.
// No interest or pledge detail is attached on this path.
func (r *Router) startShopSelection(ctx context.Context, sess *session.Session, product *catalog.Product, banner string) error {
	code := product.Code
	stock, err := r.directory.LookupStock(ctx, code)
	if err != nil {
		r.logger.Warn().Err(err).Int64("code", code).Msg("stock lookup failed")
	}
	candidates, err := r.directory.LookupCandidateLocations(ctx, code, catalog.FilterShopSelection)
	if err != nil {
		r.sendText(ctx, sess.RequesterID, msgLookupFailed)
		return fmt.Errorf("dispatch candidates for %d: %w", code, err)
	}
	if len(candidates) == 0 {
		r.fanout.Notify(ctx, r.secondary, fmt.Sprintf("❌ Товар %d недоступний в жодному магазині", code))
		r.sendText(ctx, sess.RequesterID, msgNoShopsAvailable)
		r.reset(sess.RequesterID, sess.Context.AccountID)
		return nil
	}

	key := domainNegotiation.Key{
		Kind:        domainNegotiation.KindShopSelection,
		AccountID:   sess.Context.AccountID,
		ProductCode: code,
	}
	choices := make([]chat.Choice, 0, len(candidates)+1)
	for _, loc := range candidates {
		choices = append(choices, chat.Choice{
			Label: fmt.Sprintf("🏪 %s", loc.Name),
			Data:  EncodeDecisionData(domainNegotiation.ActionSelectLocation, key, loc.ID),
		})
	}
	choices = append(choices, chat.Choice{
		Label: lblCancelOrder,
		Data:  EncodeDecisionData(domainNegotiation.ActionCancel, key, 0),
	})

	prompt := chat.Prompt{
		Text:     dispatchCard(product, sess.Context, sess.Urgency.Urgent(), stock, banner),
		PhotoURL: product.PhotoURL,
		Choices:  choices,
	}
	if _, err := r.fanout.Broadcast(ctx, r.secondary, prompt); err != nil {
		if errors.Is(err, domainNegotiation.ErrNoApprovers) {
			r.sendText(ctx, sess.RequesterID, msgNoManager)
		}
		return fmt.Errorf("dispatch fan-out for %s: %w", key.Encode(), err)
	}

	r.sessions.Mutate(sess.RequesterID, func(s *session.Session) {
		s.State = session.StateShopSelectionPending
	})
	return nil
}

func (r *Router) resolveSensitiveApproval(ctx context.Context, sess *session.Session, ev domainNegotiation.DecisionEvent) error {
	product, err := r.directory.LookupProduct(ctx, sess.ProductCode)
	if err != nil || product == nil {
		r.sendText(ctx, sess.RequesterID, msgLookupFailed)
		if err != nil {
			return fmt.Errorf("lookup product %d: %w", sess.ProductCode, err)
		}
		return nil
	}
	card := chat.Prompt{
		Text:     managerCard(product, sess.Context, sess.Urgency.Urgent(), ""),
		PhotoURL: product.PhotoURL,
	}

	if ev.Action == domainNegotiation.ActionApprove {
		r.fanout.Resolve(ctx, r.primary, "✅ Замовлення підтверджено менеджером", card)
		return r.startShopSelection(ctx, sess, product, "✅ Замовлення підтверджено менеджером.")
	}

	r.fanout.Resolve(ctx, r.primary, "❌ Замовлення відхилено менеджером", card)
	r.fanout.Resolve(ctx, r.secondary, "❌ Замовлення відхилено менеджером.", card)
	r.sendText(ctx, sess.RequesterID, msgRejected)
	r.reset(sess.RequesterID, sess.Context.AccountID)
	return nil
}

func (r *Router) resolveShopSelection(ctx context.Context, sess *session.Session, ev domainNegotiation.DecisionEvent) error {
	product, err := r.directory.LookupProduct(ctx, sess.ProductCode)
	if err != nil || product == nil {
		r.sendText(ctx, sess.RequesterID, msgLookupFailed)
		if err != nil {
			return fmt.Errorf("lookup product %d: %w", sess.ProductCode, err)
		}
		return nil
	}
	card := chat.Prompt{
		Text:     managerCard(product, sess.Context, sess.Urgency.Urgent(), ""),
		PhotoURL: product.PhotoURL,
	}

	if ev.Action == domainNegotiation.ActionCancel {
		r.fanout.Resolve(ctx, r.secondary, "❌ Замовлення скасовано", card)
		r.sendText(ctx, sess.RequesterID, msgCancelled)
		r.sendChangeProductPrompt(ctx, sess.RequesterID)
		r.reset(sess.RequesterID, sess.Context.AccountID)
		return nil
	}

	locationName := r.locationName(ctx, product.Code, ev.LocationID)
	r.fanout.Resolve(ctx, r.secondary, fmt.Sprintf("✅ Менеджер вибрав магазин для відправки: %s", locationName), card)
	r.sendText(ctx, sess.RequesterID, msgProcessing)

	result, err := r.backend.Execute(ctx, order.Request{
		AccountID:   sess.Context.AccountID,
		ProductCode: sess.ProductCode,
		EmployeeID:  sess.Context.EmployeeID,
		Urgent:      sess.Urgency.Urgent(),
		Receiver:    "",
		LocationID:  ev.LocationID,
	})
	if err != nil {
		r.sendText(ctx, sess.RequesterID, fmt.Sprintf("Помилка обробки: %v", err))
		r.reset(sess.RequesterID, sess.Context.AccountID)
		return fmt.Errorf("execute dispatch order for account %d: %w", sess.Context.AccountID, err)
	}
	r.sendText(ctx, sess.RequesterID, result)
	r.sendText(ctx, sess.RequesterID, msgAnotherProduct)
	r.reset(sess.RequesterID, sess.Context.AccountID)
	return nil
}

func (r *Router) resolveSelfDelivery(ctx context.Context, sess *session.Session, ev domainNegotiation.DecisionEvent) error {
	product, err := r.directory.LookupProduct(ctx, sess.ProductCode)
	if err != nil || product == nil {
		r.sendText(ctx, sess.RequesterID, msgLookupFailed)
		if err != nil {
			return fmt.Errorf("lookup product %d: %w", sess.ProductCode, err)
		}
		return nil
	}
	candidates, err := r.directory.LookupCandidateLocations(ctx, sess.ProductCode, catalog.FilterSelfDelivery)
	if err != nil {
		r.logger.Warn().Err(err).Int64("code", sess.ProductCode).Msg("pickup candidates lookup failed")
	}

	selected := sess.SelectedLocation
	var banner, requesterText string
	switch ev.Action {
	case domainNegotiation.ActionConfirmLocation:
		banner = fmt.Sprintf("✅ Підтверджено самовивіз з %s", selected.Name)
		requesterText = fmt.Sprintf("✅ Менеджер підтвердив самовивіз з %s", selected.Name)
	case domainNegotiation.ActionChangeLocation:
		if next := findLocation(candidates, ev.LocationID); next != nil {
			selected = next
			banner = fmt.Sprintf("🔄 Змінено магазин на %s", next.Name)
			requesterText = fmt.Sprintf("🔄 Менеджер змінив магазин на %s", next.Name)
		} else {
			banner = "🔄 Змінено магазин"
			requesterText = "🔄 Менеджер змінив магазин"
		}
	default:
		banner = "❌ Самовивіз відхилено"
	}

	card := chat.Prompt{
		Text:     pickupCard(product, sess.Context, selected, candidates, sess.ReceiverName, ""),
		PhotoURL: product.PhotoURL,
	}
	r.fanout.Resolve(ctx, r.secondary, banner, card)

	if ev.Action == domainNegotiation.ActionReject {
		r.sendText(ctx, sess.RequesterID, msgPickupRejected)
		r.sendChangeProductPrompt(ctx, sess.RequesterID)
		r.reset(sess.RequesterID, sess.Context.AccountID)
		return nil
	}

	// The approver's action does not commit the order: the requester still
	// gives a separate final confirmation.
	r.sessions.Mutate(sess.RequesterID, func(s *session.Session) {
		s.SelectedLocation = selected
		s.State = session.StateFinalConfirmation
	})
	r.sendText(ctx, sess.RequesterID, requesterText)
	_, err = r.sender.SendPrompt(ctx, sess.RequesterID, chat.Prompt{
		Text: "Підтвердіть замовлення:",
		Choices: []chat.Choice{
			{Label: lblConfirmOrder, Data: DataConfirmOrder},
			{Label: lblChangeProduct, Data: DataChangeProduct},
		},
	})
	return err
}

func (r *Router) authorize(ctx context.Context, requesterID int64) (*catalog.Profile, error) {
	profile, err := r.directory.Authorize(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("authorize %d: %w", requesterID, err)
	}
	if profile == nil {
		return nil, domainNegotiation.ErrAccessDenied
	}
	return profile, nil
}

// deny answers an authorization failure. Access denial is terminal for the
// turn and not an error; collaborator failures propagate.
func (r *Router) deny(ctx context.Context, requesterID int64, err error) error {
	if errors.Is(err, domainNegotiation.ErrAccessDenied) {
		r.sendText(ctx, requesterID, msgAccessDenied)
		return nil
	}
	r.sendText(ctx, requesterID, msgLookupFailed)
	return err
}

// reset clears the requester's session and prunes every registry record
// scoped to the account, so a later negotiation can never observe a stale
// outcome.
func (r *Router) reset(requesterID, accountID int64) {
	r.sessions.Reset(requesterID)
	if removed := r.registry.ClearAccount(accountID); removed > 0 {
		r.logger.Debug().Int64("account_id", accountID).Int("removed", removed).Msg("pruned negotiation records")
	}
}

func (r *Router) sendText(ctx context.Context, recipientID int64, text string) {
	if _, err := r.sender.SendText(ctx, recipientID, text); err != nil {
		r.logger.Error().Err(err).Int64("recipient_id", recipientID).Msg("text delivery failed")
	}
}

func (r *Router) sendChangeProductPrompt(ctx context.Context, requesterID int64) {
	_, err := r.sender.SendPrompt(ctx, requesterID, chat.Prompt{
		Text:    "Оберіть інший товар:",
		Choices: []chat.Choice{{Label: lblChangeProduct, Data: DataChangeProduct}},
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("recipient_id", requesterID).Msg("prompt delivery failed")
	}
}

// locationName resolves a location id for the resolution banner; dispatch
// picks come from the full shop list.
func (r *Router) locationName(ctx context.Context, code, locationID int64) string {
	locations, err := r.directory.LookupCandidateLocations(ctx, code, catalog.FilterAll)
	if err != nil {
		r.logger.Warn().Err(err).Int64("code", code).Msg("location name lookup failed")
		return "невідомий магазин"
	}
	if loc := findLocation(locations, locationID); loc != nil {
		return loc.Name
	}
	return "невідомий магазин"
}

func findLocation(locations []catalog.Location, id int64) *catalog.Location {
	for i := range locations {
		if locations[i].ID == id {
			return &locations[i]
		}
	}
	return nil
}

func pendingState(kind domainNegotiation.Kind) session.State {
	switch kind {
	case domainNegotiation.KindSensitiveApproval:
		return session.StateSensitivePending
	case domainNegotiation.KindShopSelection:
		return session.StateShopSelectionPending
	default:
		return session.StateSelfDeliveryPending
	}
}

func alreadyDecidedText(winner domainNegotiation.Resolution) string {
	switch winner.Action {
	case domainNegotiation.ActionApprove:
		return "Рішення вже прийнято іншим менеджером: замовлення підтверджено."
	case domainNegotiation.ActionReject:
		return "Рішення вже прийнято іншим менеджером: замовлення відхилено."
	case domainNegotiation.ActionSelectLocation:
		return "Рішення вже прийнято іншим менеджером: магазин для відправки обрано."
	case domainNegotiation.ActionConfirmLocation:
		return "Рішення вже прийнято іншим менеджером: самовивіз підтверджено."
	case domainNegotiation.ActionChangeLocation:
		return "Рішення вже прийнято іншим менеджером: магазин самовивозу змінено."
	default:
		return "Рішення вже прийнято іншим менеджером: замовлення скасовано."
	}
}
