package routes

import (
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"survey-collector/app"
	"survey-collector/database"
	"survey-collector/httpx"
	"survey-collector/log"
	"survey-collector/model"
	"survey-collector/templates"
)

// multipart bodies are buffered whole; attachments are expected to be
// photos and documents, not bulk uploads
const maxSubmissionMemory = 32 << 20

func SurveyForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates.Render(w, "survey.html", nil)
	}
}

func SurveyRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func ThankYou() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates.Render(w, "thankyou.html", nil)
	}
}

// SubmitSurvey accepts the public multipart form: three answers, the
// optional name and student id, and any number of attachments. The
// record and its files are persisted as one unit; contention surfaces
// as 503 after the retry budget runs out.
func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxSubmissionMemory); err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "submit.parse_form", "invalid form data")
			return
		}

		files, err := readUploads(r)
		if err != nil {
			httpx.JSONError(w, r, http.StatusInternalServerError, "submit.read_files",
				"failed to read uploaded file: "+err.Error())
			return
		}

		sub := model.Submission{
			Q1:        r.FormValue("q1"),
			Q2:        r.FormValue("q2"),
			Q3:        r.FormValue("q3"),
			Name:      strings.TrimSpace(r.FormValue("name")),
			StudentID: strings.TrimSpace(r.FormValue("student_id")),
		}

		recordID, err := app.SaveSubmission(r.Context(), sub, files)
		switch {
		case errors.Is(err, database.ErrBusy):
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "submit.busy",
				"system is busy, please try again later")
			return
		case err != nil:
			httpx.JSONError(w, r, http.StatusInternalServerError, "submit.save",
				"database error: "+err.Error())
			return
		}

		log.Debugf("submission stored: record=%d files=%d", recordID, len(files))
		httpx.JSONOk(w, r, "")
	}
}

// readUploads buffers every attachment and tags it by extension.
func readUploads(r *http.Request) ([]model.FileUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := []model.FileUpload{}
	for _, header := range r.MultipartForm.File["files"] {
		if header.Filename == "" {
			continue
		}

		f, err := header.Open()
		if err != nil {
			return nil, errors.Wrap(err, header.Filename)
		}
		blob, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrap(err, header.Filename)
		}

		files = append(files, model.FileUpload{
			Name: header.Filename,
			Blob: blob,
			Type: model.ClassifyFile(header.Filename),
		})
	}
	return files, nil
}

// QRCode renders the survey entry URL as a PNG, so respondents can scan
// their way to the form.
func QRCode(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := app.AdvertisedURL(r.Host)
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		log.Debugf("qrcode url: %s", url)

		png, err := qrcode.Encode(url, qrcode.Medium, 256)
		if err != nil {
			httpx.LogInternalError(w, "qrcode.encode", err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}
