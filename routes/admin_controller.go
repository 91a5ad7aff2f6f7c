package routes

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"survey-collector/app"
	"survey-collector/database"
	"survey-collector/export"
	"survey-collector/httpx"
	"survey-collector/log"
	"survey-collector/model"
	"survey-collector/store"
	"survey-collector/templates"
)

var validate = validator.New()

type recordsPage struct {
	Records []model.SurveyRecord
}

func Records(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := app.ListRecords(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.list_records", err)
			return
		}
		templates.Render(w, "records.html", recordsPage{Records: records})
	}
}

// GetFile serves one stored attachment. Images go out inline with a
// guessed MIME type, everything else as a download.
func GetFile(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		f, err := app.FileByID(r.Context(), fileID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_file", fileID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_file", err)
			return
		}

		if f.Type == model.FileTypeImage {
			mimeType := mime.TypeByExtension(filepath.Ext(f.Name))
			if mimeType == "" {
				mimeType = "image/jpeg"
			}
			w.Header().Set("Content-Type", mimeType)
		} else {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=%q", f.Name))
		}
		w.Write(f.Blob)
	}
}

type deleteRequest struct {
	IDs []int `json:"ids" validate:"required,min=1"`
}

// DeleteRecords removes the selected records with all their files. An
// empty selection is rejected before the store is touched.
func DeleteRecords(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := deleteRequest{}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "delete.parse_body", "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "delete.no_selection", "no records selected")
			return
		}

		deleted, err := app.DeleteRecords(r.Context(), req.IDs)
		switch {
		case errors.Is(err, database.ErrBusy):
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "delete.busy",
				"system is busy, please try again later")
			return
		case err != nil:
			httpx.JSONError(w, r, http.StatusInternalServerError, "delete.exec",
				"database error: "+err.Error())
			return
		}

		log.Infof("deleted %d record(s): %v", deleted, req.IDs)
		httpx.JSONOk(w, r, fmt.Sprintf("deleted %d record(s)", deleted))
	}
}

// DownloadAll streams the filtered attachment set as a zip archive with
// a generated manifest.
func DownloadAll(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typeFilter := r.URL.Query().Get("type")
		if typeFilter == "" {
			typeFilter = "all"
		}
		date := r.URL.Query().Get("date")

		files, err := app.FilesForExport(r.Context(), typeFilter, date)
		if err != nil {
			httpx.LogInternalError(w, "db.export_files", err)
			return
		}
		if len(files) == 0 {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("no matching files"))
			return
		}

		archive, err := export.BuildArchive(files)
		if err != nil {
			httpx.LogInternalError(w, "export.build_archive", err)
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.ArchiveName(typeFilter)))
		w.Write(archive)
	}
}
