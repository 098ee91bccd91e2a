package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetSalePrice(c *gin.Context) {
	resp, err := s.salePriceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSalePrice(c *gin.Context) {
	if err := s.salePriceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	recordSaleOp("sale_price", "delete")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) EnableSalePrice(c *gin.Context) {
	resp, err := s.salePriceSvc.Enable(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	recordSaleOp("sale_price", "enable")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableSalePrice(c *gin.Context) {
	resp, err := s.salePriceSvc.Disable(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	recordSaleOp("sale_price", "disable")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StartSalePrice(c *gin.Context) {
	var req struct {
		EndAt *time.Time `json:"end_at"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.salePriceSvc.Start(c.Request.Context(), c.Param("id"), req.EndAt)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	recordSaleOp("sale_price", "start")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StopSalePrice(c *gin.Context) {
	resp, err := s.salePriceSvc.Stop(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	recordSaleOp("sale_price", "stop")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
