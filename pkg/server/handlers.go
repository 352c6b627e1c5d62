package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

const maxAuxImages = 8

type generateResponse struct {
	ImageBase64 string `json:"image_base64"`
	MIMEType    string `json:"mime_type"`
	Text        string `json:"text"`
	Model       string `json:"model"`
	Prompt      string `json:"prompt,omitempty"`
	AspectRatio string `json:"aspect_ratio"`
}

type consultRequest struct {
	AccessCode string `json:"access_code"`
	Question   string `json:"question"`
}

type consultResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type styleEntry struct {
	ID     string `json:"id"`
	Phrase string `json:"phrase"`
}

type stylesResponse struct {
	Styles       []styleEntry `json:"styles"`
	AspectRatios []string     `json:"aspect_ratios"`
	Flows        []string     `json:"flows"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid multipart form"})
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	code := strings.TrimSpace(r.FormValue("access_code"))
	if !s.auth.ValidAccessCode(code) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "invalid access code"})
		return
	}

	req, err := parseGenerateForm(r.MultipartForm)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	req.AccessCode = code

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: "server busy"})
		return
	}
	defer s.sem.Release(1)

	res, err := s.gen.Generate(ctx, req)
	if err != nil {
		var text string
		if res != nil {
			text = res.Text
		}
		s.writeError(w, r, err, text)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		ImageBase64: base64.StdEncoding.EncodeToString(res.Image.Data),
		MIMEType:    res.Image.MIMEType,
		Text:        res.Text,
		Model:       res.Model,
		Prompt:      res.Prompt,
		AspectRatio: res.AspectRatio,
	})
}

// parseGenerateForm はフォームの値を検証して GenerationRequest に変換します。
func parseGenerateForm(form *multipart.Form) (domain.GenerationRequest, error) {
	var req domain.GenerationRequest

	bases := form.File["base"]
	if len(bases) == 0 {
		return req, errors.New("missing base image")
	}
	base, err := readBlob(bases[0])
	if err != nil {
		return req, err
	}
	req.Base = base

	aux := form.File["aux"]
	if len(aux) > maxAuxImages {
		return req, fmt.Errorf("too many aux images (max %d)", maxAuxImages)
	}
	for _, fh := range aux {
		blob, err := readBlob(fh)
		if err != nil {
			return req, err
		}
		req.Auxiliary = append(req.Auxiliary, blob)
	}

	if req.Style, err = domain.ParseStyle(formValue(form, "style")); err != nil {
		return req, err
	}
	if req.AspectRatio, err = domain.ParseAspectRatio(formValue(form, "aspect_ratio")); err != nil {
		return req, err
	}
	if req.Flow, err = domain.ParseFlow(formValue(form, "flow")); err != nil {
		return req, err
	}
	if raw := formValue(form, "seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid seed: %q", raw)
		}
		req.Seed = &seed
	}
	req.Note = formValue(form, "note")
	req.IncludeMaterials = parseBool(formValue(form, "materials"))

	return req, nil
}

func readBlob(fh *multipart.FileHeader) (domain.ImageBlob, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.ImageBlob{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.ImageBlob{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	mimeType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return domain.ImageBlob{Data: data, MIMEType: mimeType}, nil
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func parseBool(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func (s *Server) handleConsult(w http.ResponseWriter, r *http.Request) {
	var body consultRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid json body"})
		return
	}
	if !s.auth.ValidAccessCode(body.AccessCode) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "invalid access code"})
		return
	}
	if strings.TrimSpace(body.Question) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "question is empty"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	res, err := s.gen.Consult(ctx, body.Question, nil)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, consultResponse{Text: res.Text, Model: res.Model})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	resp := stylesResponse{
		Flows: []string{string(domain.FlowDirect), string(domain.FlowDescribeThenRender)},
	}
	for _, st := range domain.Styles {
		resp.Styles = append(resp.Styles, styleEntry{ID: string(st), Phrase: st.Phrase()})
	}
	resp.AspectRatios = append(resp.AspectRatios, string(domain.AspectAuto))
	for _, a := range domain.SupportedAspectRatios {
		resp.AspectRatios = append(resp.AspectRatios, string(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.auth.ValidAdminCode(r.Header.Get("X-Admin-Code")) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "invalid admin code"})
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	if !s.auth.ValidAdminCode(r.Header.Get("X-Admin-Code")) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "invalid admin code"})
		return
	}
	s.stats.Reset()
	s.logger.InfoContext(r.Context(), "利用回数をリセットしました")
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}
