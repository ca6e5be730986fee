package handler

import (
	"net/http"
	"strconv"

	"sealedauction/internal/config"
	"sealedauction/internal/service"
	"sealedauction/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler holds every core service the façade delegates to, mirroring the
// teacher's Handler{accountService, orderService, payService, refundService}
// shape with the auction domain's services instead.
type Handler struct {
	walletService *service.WalletService
	bidService    *service.AuctionBidService
	adminService  *service.AuctionAdminService
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{
		walletService: service.NewWalletService(db),
		bidService:    service.NewAuctionBidService(db),
		adminService:  service.NewAuctionAdminService(db, &cfg.Auction),
	}
}

// ============================================================
// users / wallet
// ============================================================

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=32"`
}

// POST /api/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	user, err := h.walletService.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// GET /api/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.walletService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

type topupRequest struct {
	AmountCents int64 `json:"amountCents" binding:"required,gt=0"`
}

// POST /api/users/:id/topup
func (h *Handler) Topup(c *gin.Context) {
	var req topupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	user, err := h.walletService.Topup(c.Request.Context(), c.Param("id"), req.AmountCents)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// GET /api/users/:id/ledger?limit=1..200
func (h *Handler) GetLedger(c *gin.Context) {
	limit := clampLimit(c.DefaultQuery("limit", "50"), 200)
	entries, err := h.walletService.GetLedger(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

// ============================================================
// auctions
// ============================================================

type createAuctionRequest struct {
	Title                         string `json:"title" binding:"required"`
	TotalItems                    int    `json:"totalItems" binding:"required"`
	ItemsPerRound                 int    `json:"itemsPerRound" binding:"required"`
	RoundDurationSec              int    `json:"roundDurationSec" binding:"required"`
	MinBidCents                   int64  `json:"minBidCents" binding:"required"`
	AntiSnipeWindowSec            int    `json:"antiSnipeWindowSec"`
	AntiSnipeExtensionSec         int    `json:"antiSnipeExtensionSec"`
	AntiSnipeMaxTotalExtensionSec int    `json:"antiSnipeMaxTotalExtensionSec"`
}

// POST /api/auctions
func (h *Handler) CreateAuction(c *gin.Context) {
	var req createAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	auction, err := h.adminService.CreateAuction(c.Request.Context(), service.CreateAuctionInput{
		Title:                         req.Title,
		MinBidCents:                   req.MinBidCents,
		TotalItems:                    req.TotalItems,
		ItemsPerRound:                 req.ItemsPerRound,
		RoundDurationSec:              req.RoundDurationSec,
		AntiSnipeWindowSec:            req.AntiSnipeWindowSec,
		AntiSnipeExtensionSec:         req.AntiSnipeExtensionSec,
		AntiSnipeMaxTotalExtensionSec: req.AntiSnipeMaxTotalExtensionSec,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, auction)
}

// POST /api/auctions/:id/start
func (h *Handler) StartAuction(c *gin.Context) {
	auction, err := h.adminService.StartAuction(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, auction)
}

// GET /api/auctions/:id
func (h *Handler) GetAuction(c *gin.Context) {
	result, err := h.adminService.GetAuction(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/auctions/:id/leaderboard?limit=1..500
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := clampLimit(c.DefaultQuery("limit", "100"), 500)
	bids, err := h.adminService.Leaderboard(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, bids)
}

// GET /api/auctions/:id/winners?limit=1..500
func (h *Handler) GetWinners(c *gin.Context) {
	limit := clampLimit(c.DefaultQuery("limit", "200"), 500)
	winners, err := h.adminService.Winners(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, winners)
}

// GET /api/auctions/:id/invariants
func (h *Handler) CheckInvariants(c *gin.Context) {
	report, err := h.adminService.CheckInvariants(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

type placeBidRequest struct {
	UserID      string `json:"userId" binding:"required"`
	AmountCents int64  `json:"amountCents" binding:"required,gt=0"`
	EntryID     string `json:"entryId" binding:"max=64"`
}

// POST /api/auctions/:id/bids
func (h *Handler) PlaceBid(c *gin.Context) {
	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	result, err := h.bidService.PlaceBid(c.Request.Context(), c.Param("id"), req.UserID, req.AmountCents, req.EntryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func clampLimit(raw string, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
