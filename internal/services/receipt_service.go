// internal/services/receipt_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ismaelcabanas/home-inventory-backend/internal/apperrors"
	"github.com/ismaelcabanas/home-inventory-backend/internal/models"
	"github.com/ismaelcabanas/home-inventory-backend/internal/ocr"
	"github.com/ismaelcabanas/home-inventory-backend/internal/store"
)

type SessionState string

const (
	SessionStateIdle       SessionState = "idle"
	SessionStateProcessing SessionState = "processing"
	SessionStateReview     SessionState = "review"
	SessionStateCompleted  SessionState = "completed"
	// SessionStateQueued is deferred success: the receipt is saved for a
	// later drain. Deliberately not an error state so clients cannot
	// mistake deferral for failure.
	SessionStateQueued SessionState = "queued"
	SessionStateError  SessionState = "error"
)

// ReviewSession is one capture-to-commit pipeline run. The candidate arena is
// owned exclusively by the session and never persisted.
type ReviewSession struct {
	ID                uuid.UUID            `json:"id"`
	State             SessionState         `json:"state"`
	Provider          string               `json:"provider,omitempty"`
	ErrorMessage      string               `json:"error_message,omitempty"`
	QueuedForRetry    bool                 `json:"queued_for_retry"`
	Candidates        []*RecognizedProduct `json:"candidates"`
	Confirmed         []*RecognizedProduct `json:"confirmed"`
	UpdatingInventory bool                 `json:"updating_inventory"`
	ProductsUpdated   int                  `json:"products_updated"`
	UpdateError       string               `json:"update_error,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`

	image     []byte
	receiptID uuid.UUID
}

func (s *ReviewSession) snapshot() *ReviewSession {
	clone := *s
	clone.image = nil
	clone.Candidates = make([]*RecognizedProduct, len(s.Candidates))
	for i, c := range s.Candidates {
		cc := *c
		clone.Candidates[i] = &cc
	}
	clone.Confirmed = make([]*RecognizedProduct, len(s.Confirmed))
	for i, c := range s.Confirmed {
		cc := *c
		clone.Confirmed[i] = &cc
	}
	return &clone
}

type DrainResult struct {
	Processed int `json:"processed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Purged    int `json:"purged"`
}

const (
	minCandidateNameLength = 2
	messageQueuedOffline   = "You are offline. The receipt was saved and will be processed once the connection is back."
	messageQueuedRetry     = "Recognition is temporarily unavailable. The receipt was saved for an automatic retry."
	messageRecognition     = "Receipt recognition failed."
)

type ReceiptService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*ReviewSession

	products     store.ProductStore
	receipts     store.ReceiptStore
	inventory    *InventoryService
	shoppingList *ShoppingListService
	provider     ocr.Provider
	archive      *ArchiveService
	connectivity ConnectivityChecker

	ocrOptions ocr.Options
	retention  time.Duration
}

func NewReceiptService(
	products store.ProductStore,
	receipts store.ReceiptStore,
	inventory *InventoryService,
	shoppingList *ShoppingListService,
	provider ocr.Provider,
	archive *ArchiveService,
	connectivity ConnectivityChecker,
	ocrOptions ocr.Options,
	retention time.Duration,
) *ReceiptService {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &ReceiptService{
		sessions:     make(map[uuid.UUID]*ReviewSession),
		products:     products,
		receipts:     receipts,
		inventory:    inventory,
		shoppingList: shoppingList,
		provider:     provider,
		archive:      archive,
		connectivity: connectivity,
		ocrOptions:   ocrOptions,
		retention:    retention,
	}
}

// SubmitImage starts a pipeline run for one captured image. Offline captures
// are queued instead of processed; recoverable provider failures queue the
// image before surfacing the error so the capture is never lost.
func (s *ReceiptService) SubmitImage(ctx context.Context, image []byte) (*ReviewSession, error) {
	if len(image) == 0 {
		return nil, apperrors.Validation("image payload must not be empty")
	}

	session := &ReviewSession{
		ID:        uuid.New(),
		State:     SessionStateIdle,
		CreatedAt: time.Now(),
		image:     image,
	}
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	if !s.connectivity.Online(ctx) {
		receiptID, err := s.enqueue(ctx, image)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		session.State = SessionStateQueued
		session.QueuedForRetry = true
		session.ErrorMessage = messageQueuedOffline
		session.receiptID = receiptID
		snap := session.snapshot()
		s.mu.Unlock()
		return snap, nil
	}

	s.mu.Lock()
	session.State = SessionStateProcessing
	s.mu.Unlock()

	result, err := s.provider.Process(ctx, image, s.ocrOptions)
	if err != nil {
		perr := ocr.Classify(s.provider.Name(), err)
		logrus.WithFields(logrus.Fields{
			"session":  session.ID,
			"provider": perr.Provider,
			"class":    perr.Class,
		}).WithError(perr.Err).Warn("OCR call failed")

		s.mu.Lock()
		session.State = SessionStateError
		session.ErrorMessage = messageRecognition
		s.mu.Unlock()

		if perr.Recoverable() {
			receiptID, qerr := s.enqueue(ctx, image)
			if qerr != nil {
				return nil, qerr
			}
			s.mu.Lock()
			session.QueuedForRetry = true
			session.ErrorMessage = messageQueuedRetry
			session.receiptID = receiptID
			s.mu.Unlock()
		}

		s.mu.Lock()
		snap := session.snapshot()
		s.mu.Unlock()
		return snap, nil
	}

	candidates, err := s.recognize(ctx, result.RawText)
	if err != nil {
		logrus.WithField("session", session.ID).WithError(err).Error("candidate matching failed")
		// the session must not stay stuck in processing
		s.mu.Lock()
		session.State = SessionStateError
		session.ErrorMessage = messageRecognition
		snap := session.snapshot()
		s.mu.Unlock()
		return snap, nil
	}

	s.mu.Lock()
	session.Provider = result.Provider
	session.Candidates = candidates
	session.State = SessionStateReview
	snap := session.snapshot()
	s.mu.Unlock()
	return snap, nil
}

func (s *ReceiptService) recognize(ctx context.Context, rawText string) ([]*RecognizedProduct, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory for matching: %w", err)
	}
	return matchCandidates(parseReceiptText(rawText), products), nil
}

func (s *ReceiptService) enqueue(ctx context.Context, image []byte) (uuid.UUID, error) {
	receipt := &models.PendingReceipt{ImageData: image}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		return uuid.Nil, err
	}
	logrus.WithField("receipt", receipt.ID).Info("receipt queued for deferred processing")
	return receipt.ID, nil
}

func (s *ReceiptService) GetSession(id uuid.UUID) (*ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}
	return session.snapshot(), nil
}

func (s *ReceiptService) sessionInState(id uuid.UUID, state SessionState) (*ReviewSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}
	if session.State != state {
		return nil, apperrors.Validation("session is %s, expected %s", session.State, state)
	}
	return session, nil
}

// EditCandidate renames a review-set entry. Names shorter than 2 characters
// after trimming are rejected without mutating anything.
func (s *ReceiptService) EditCandidate(sessionID, candidateID uuid.UUID, name string) (*ReviewSession, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minCandidateNameLength {
		return nil, apperrors.Validation("candidate name must have at least %d characters", minCandidateNameLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionInState(sessionID, SessionStateReview)
	if err != nil {
		return nil, err
	}
	for _, candidate := range session.Candidates {
		if candidate.ID == candidateID {
			candidate.Name = trimmed
			candidate.IsCorrect = true
			return session.snapshot(), nil
		}
	}
	return nil, apperrors.NotFound("candidate", candidateID)
}

// AddCandidate appends a user-authored entry: confidence 1.0 and correct
// immediately, since the user typed it.
func (s *ReceiptService) AddCandidate(sessionID uuid.UUID, name string) (*ReviewSession, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minCandidateNameLength {
		return nil, apperrors.Validation("candidate name must have at least %d characters", minCandidateNameLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionInState(sessionID, SessionStateReview)
	if err != nil {
		return nil, err
	}
	session.Candidates = append(session.Candidates, &RecognizedProduct{
		ID:         uuid.New(),
		Name:       trimmed,
		Confidence: ConfidenceExactMatch,
		IsCorrect:  true,
	})
	return session.snapshot(), nil
}

func (s *ReceiptService) RemoveCandidate(sessionID, candidateID uuid.UUID) (*ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionInState(sessionID, SessionStateReview)
	if err != nil {
		return nil, err
	}
	for i, candidate := range session.Candidates {
		if candidate.ID == candidateID {
			session.Candidates = append(session.Candidates[:i], session.Candidates[i+1:]...)
			return session.snapshot(), nil
		}
	}
	return nil, apperrors.NotFound("candidate", candidateID)
}

// ConfirmReview promotes the working set into the confirmed list and clears
// it. No durable writes happen here; that is the commit step.
func (s *ReceiptService) ConfirmReview(sessionID uuid.UUID) (*ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionInState(sessionID, SessionStateReview)
	if err != nil {
		return nil, err
	}
	if len(session.Candidates) == 0 {
		return nil, apperrors.Validation("nothing to confirm")
	}
	for _, candidate := range session.Candidates {
		candidate.IsCorrect = true
	}
	session.Confirmed = session.Candidates
	session.Candidates = nil
	session.State = SessionStateCompleted
	return session.snapshot(), nil
}

// CommitToInventory runs the two-step durable commit: replenish every
// confirmed name, then purge those names from the shopping list. The steps
// are strictly sequential and not atomic across the two managers; on failure
// the confirmed set is preserved so a retry reuses the exact same products.
func (s *ReceiptService) CommitToInventory(ctx context.Context, sessionID uuid.UUID) (*ReviewSession, error) {
	s.mu.Lock()
	session, err := s.sessionInState(sessionID, SessionStateCompleted)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if session.UpdatingInventory {
		s.mu.Unlock()
		return nil, apperrors.Validation("commit already in progress")
	}
	if len(session.Confirmed) == 0 {
		s.mu.Unlock()
		return nil, apperrors.Validation("no confirmed products to commit")
	}
	session.UpdatingInventory = true
	session.UpdateError = ""
	names := make([]string, len(session.Confirmed))
	for i, candidate := range session.Confirmed {
		names[i] = candidate.Name
	}
	image := session.image
	provider := session.Provider
	s.mu.Unlock()

	commitErr := s.runCommit(ctx, names)

	s.mu.Lock()
	defer s.mu.Unlock()
	session.UpdatingInventory = false
	if commitErr != nil {
		session.UpdateError = commitErr.Error()
		logrus.WithField("session", session.ID).WithError(commitErr).Error("inventory commit failed")
		return session.snapshot(), nil
	}

	session.ProductsUpdated = len(names)
	session.UpdateError = ""
	session.Confirmed = nil
	s.recordScan(ctx, provider, names, image)
	return session.snapshot(), nil
}

func (s *ReceiptService) runCommit(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, _, err := s.inventory.ReplenishByName(ctx, name); err != nil {
			return apperrors.Commit("replenish", err)
		}
	}
	// purge only runs once every replenish succeeded; its correctness
	// depends on the replenished names existing in inventory
	if _, err := s.shoppingList.PurgePurchased(ctx, names); err != nil {
		return apperrors.Commit("purge", err)
	}
	return nil
}

// adoptQueuedSession moves the deferred session whose receipt just drained
// into review, so clients polling it see the deferral resolve. A fresh
// session is created only when no submission session references the receipt
// (queued by a previous run of the process).
func (s *ReceiptService) adoptQueuedSession(receiptID uuid.UUID, provider string, candidates []*RecognizedProduct, image []byte) *ReviewSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.receiptID == receiptID && session.QueuedForRetry {
			session.State = SessionStateReview
			session.Provider = provider
			session.Candidates = candidates
			session.ErrorMessage = ""
			session.QueuedForRetry = false
			session.image = image
			return session
		}
	}

	session := &ReviewSession{
		ID:         uuid.New(),
		State:      SessionStateReview,
		Provider:   provider,
		Candidates: candidates,
		CreatedAt:  time.Now(),
		image:      image,
		receiptID:  receiptID,
	}
	s.sessions[session.ID] = session
	return session
}

func (s *ReceiptService) recordScan(ctx context.Context, provider string, names []string, image []byte) {
	scan := &models.ReceiptScan{
		Provider:        provider,
		ProductNames:    names,
		ProductsUpdated: len(names),
	}
	if err := s.receipts.RecordScan(ctx, scan); err != nil {
		logrus.WithError(err).Warn("failed to record receipt scan")
		return
	}
	if s.archive != nil && len(image) > 0 {
		go func() {
			if _, err := s.archive.ArchiveReceipt(scan.ID, image); err != nil {
				logrus.WithField("scan", scan.ID).WithError(err).Warn("failed to archive receipt image")
			}
		}()
	}
}

// RetryCommit re-runs the commit with the preserved confirmed set.
func (s *ReceiptService) RetryCommit(ctx context.Context, sessionID uuid.UUID) (*ReviewSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.NotFound("session", sessionID)
	}
	if session.UpdateError == "" {
		s.mu.Unlock()
		return nil, apperrors.Validation("no failed commit to retry")
	}
	s.mu.Unlock()
	return s.CommitToInventory(ctx, sessionID)
}

// ClearError resets error state. Sessions in a terminal error state go back
// to idle; queued sessions stay queued since the receipt is still pending.
func (s *ReceiptService) ClearError(sessionID uuid.UUID) (*ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NotFound("session", sessionID)
	}
	session.UpdateError = ""
	if session.State == SessionStateError {
		session.State = SessionStateIdle
		session.ErrorMessage = ""
	}
	return session.snapshot(), nil
}

func (s *ReceiptService) GetPendingCount(ctx context.Context) (int64, error) {
	return s.receipts.CountByStatus(ctx, models.ReceiptStatusPending)
}

func (s *ReceiptService) ListScans(ctx context.Context, limit int) ([]models.ReceiptScan, error) {
	return s.receipts.ListScans(ctx, limit)
}

// DrainOfflineQueue processes every pending receipt independently: one
// failure never aborts the batch. Receipts that OCR successfully become
// ready review sessions so the user still confirms before any commit.
// Afterwards, terminal entries older than the retention window are purged.
func (s *ReceiptService) DrainOfflineQueue(ctx context.Context) (*DrainResult, error) {
	pending, err := s.receipts.ListByStatus(ctx, models.ReceiptStatusPending)
	if err != nil {
		return nil, err
	}

	result := &DrainResult{}
	for _, receipt := range pending {
		result.Processed++

		if err := s.receipts.SetStatus(ctx, receipt.ID, models.ReceiptStatusProcessing, ""); err != nil {
			logrus.WithField("receipt", receipt.ID).WithError(err).Warn("failed to mark receipt processing")
			result.Failed++
			continue
		}

		ocrResult, err := s.provider.Process(ctx, receipt.ImageData, s.ocrOptions)
		if err != nil {
			perr := ocr.Classify(s.provider.Name(), err)
			if serr := s.receipts.SetStatus(ctx, receipt.ID, models.ReceiptStatusFailed, perr.Message); serr != nil {
				logrus.WithField("receipt", receipt.ID).WithError(serr).Warn("failed to mark receipt failed")
			}
			result.Failed++
			continue
		}

		candidates, err := s.recognize(ctx, ocrResult.RawText)
		if err != nil {
			if serr := s.receipts.SetStatus(ctx, receipt.ID, models.ReceiptStatusFailed, err.Error()); serr != nil {
				logrus.WithField("receipt", receipt.ID).WithError(serr).Warn("failed to mark receipt failed")
			}
			result.Failed++
			continue
		}

		s.adoptQueuedSession(receipt.ID, ocrResult.Provider, candidates, receipt.ImageData)

		if err := s.receipts.SetStatus(ctx, receipt.ID, models.ReceiptStatusCompleted, ""); err != nil {
			logrus.WithField("receipt", receipt.ID).WithError(err).Warn("failed to mark receipt completed")
		}
		result.Completed++
	}

	cutoff := time.Now().Add(-s.retention)
	purged, err := s.receipts.DeleteOlderThan(ctx, cutoff,
		[]models.ReceiptStatus{models.ReceiptStatusCompleted, models.ReceiptStatusFailed})
	if err != nil {
		logrus.WithError(err).Warn("retention sweep failed")
	} else {
		result.Purged = int(purged)
	}

	if result.Processed > 0 {
		logrus.WithFields(logrus.Fields{
			"processed": result.Processed,
			"completed": result.Completed,
			"failed":    result.Failed,
			"purged":    result.Purged,
		}).Info("offline queue drained")
	}
	return result, nil
}

// ReviewSessions returns the ids of sessions currently awaiting review, most
// recent first. Used by clients to pick up sessions created by a drain.
func (s *ReceiptService) ReviewSessions() []*ReviewSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reviews []*ReviewSession
	for _, session := range s.sessions {
		if session.State == SessionStateReview {
			reviews = append(reviews, session.snapshot())
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews
}
