package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"trojsten-graph/backend/internal/access"
)

func (h *handlers) graphView(c *gin.Context) {
	c.HTML(http.StatusOK, "graph.html", gin.H{
		"Title":    "Graph",
		"DataURL":  "/graph/graph-data/",
		"Username": access.CurrentIdentity(c).Username,
	})
}

// graphViewV2 forwards the token the page was opened with to its data calls
func (h *handlers) graphViewV2(c *gin.Context) {
	suffix := ""
	if token := c.Query(access.TokenQueryParam); token != "" {
		suffix = "?" + url.Values{access.TokenQueryParam: {token}}.Encode()
	}
	c.HTML(http.StatusOK, "graph_v2.html", gin.H{
		"Title":            "Graph",
		"PeopleURL":        "/graph/api/people/" + suffix,
		"RelationshipsURL": "/graph/api/relationships/" + suffix,
		"EnumsURL":         "/graph/v2/enums/" + suffix,
	})
}

func (h *handlers) aboutView(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{"Title": "About"})
}

func (h *handlers) graphData(c *gin.Context) {
	doc, err := h.Assembler.Assemble(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load graph")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handlers) people(c *gin.Context) {
	nodes, err := h.Assembler.People(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load people")
		return
	}
	c.JSON(http.StatusOK, nodes)
}

func (h *handlers) relationships(c *gin.Context) {
	edges, err := h.Assembler.Relationships(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load relationships")
		return
	}
	c.JSON(http.StatusOK, edges)
}

func (h *handlers) enums(c *gin.Context) {
	doc, err := h.Enums.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load enums")
		return
	}
	c.JSON(http.StatusOK, doc)
}
