package server

import (
	"net/http"
	"strconv"
)

// InspectResponse describes the closest hit through a pixel.
type InspectResponse struct {
	Hit      bool          `json:"hit"`
	Point    [3]float32    `json:"point"`
	Normal   [3]float32    `json:"normal"` // normalized geometric normal
	Distance float32       `json:"distance,omitempty"`
	U        float32       `json:"u"`
	V        float32       `json:"v"`
	GeomID   int32         `json:"geomID"`
	PrimID   int32         `json:"primID"`
	Mesh     string        `json:"mesh,omitempty"`
	Triangle [3][3]float32 `json:"triangle"`
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	rd, err := s.newRenderer(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hit, ok := rd.Inspect(float32(pixelX)+0.5, float32(pixelY)+0.5)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, GeomID: hit.GeomID, PrimID: hit.PrimID})
		return
	}

	response := InspectResponse{
		Hit:      true,
		Point:    hit.Point,
		Normal:   hit.Ng.Normalize(),
		Distance: hit.T,
		U:        hit.U,
		V:        hit.V,
		GeomID:   hit.GeomID,
		PrimID:   hit.PrimID,
	}

	// the scene is cached, so this is the mesh the renderer traced
	sc, err := s.scene(req)
	if err == nil {
		if m := sc.Mesh(hit.GeomID); m != nil {
			response.Mesh = m.Name
			tri := m.Triangles[hit.PrimID]
			for i, idx := range tri {
				response.Triangle[i] = m.Vertices[idx]
			}
		}
	}
	writeJSON(w, http.StatusOK, response)
}
