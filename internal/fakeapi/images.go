package fakeapi

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/blogclient/models"
)

const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (s *Server) imageResponse(img imageRecord) models.ImageRef {
	return models.ImageRef{
		ID:           img.ID,
		FileName:     img.FileName,
		OriginalName: img.OriginalName,
		URL:          "/api/images/" + img.FileName,
		ContentType:  img.ContentType,
		FileSize:     int64(len(img.Data)),
	}
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	blogID, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	blog, ok := s.blogs.Get(blogID)
	if !ok {
		s.blogNotFoundResponse(w, r)
		return
	}
	if blog.AuthorID != user.ID {
		s.forbiddenResponse(w, r, "You can only upload images to your own blogs")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: "Please select a file to upload", ErrorStack: xerrors.New(err)})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		s.internalErrorResponse(w, r, xerrors.New(err))
		return
	}
	if len(data) == 0 {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: "Please select a file to upload"})
		return
	}
	if len(data) > maxImageBytes {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: "File size must not exceed 5MB"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		contentType = http.DetectContentType(data)
	}
	if !allowedImageTypes[contentType] {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: "Only image files are allowed"})
		return
	}

	img := imageRecord{
		ID:           s.newID(),
		BlogID:       blogID,
		UploaderID:   user.ID,
		FileName:     uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename)),
		OriginalName: header.Filename,
		ContentType:  contentType,
		Data:         data,
	}
	s.images.Store(img.ID, img)

	if err := s.writeJSON(w, http.StatusOK, s.imageResponse(img), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) imageByName(name string) (imageRecord, bool) {
	for _, img := range s.images.Values() {
		if img.FileName == name {
			return img, true
		}
	}
	return imageRecord{}, false
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	img, ok := s.imageByName(s.readNameParam(r))
	if !ok {
		s.notFoundResponse(w, r)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		s.log.Error(err.Error())
	}
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	id, err := strconv.ParseInt(s.readNameParam(r), 10, 64)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	img, ok := s.images.Get(id)
	if !ok {
		s.errorResponse(w, r, http.StatusNotFound, &AppError{ErrorMessage: "Image not found"})
		return
	}
	if img.UploaderID != user.ID {
		s.forbiddenResponse(w, r, "You can only delete your own images")
		return
	}
	s.images.Delete(id)

	if err := s.writeJSON(w, http.StatusOK, map[string]string{"message": "Image deleted successfully"}, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}
