package auth

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/baechuer/course-feedback/internal/domain"
)

func (s *Service) Profile(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile merges upd into the stored profile; empty fields keep their value.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	audit := s.auditor("profile.update", map[string]string{"actor_id": userID})

	u, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		audit("error", err, nil)
		return domain.User{}, err
	}
	audit("success", nil, nil)
	return u, nil
}

// ProfilePictureFolder is the key prefix of stored profile pictures.
const ProfilePictureFolder = "profile_pics"

var pictureTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type PictureUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// UploadProfilePicture stores a jpg/jpeg/png image and records its URL on the user.
func (s *Service) UploadProfilePicture(ctx context.Context, userID string, up PictureUpload) (string, error) {
	audit := s.auditor("profile.upload_picture", map[string]string{"actor_id": userID})

	ext := strings.ToLower(path.Ext(up.Filename))
	contentType, ok := pictureTypes[ext]
	if !ok {
		err := domain.ErrUnsupportedUpload("extension")
		audit("error", err, nil)
		return "", err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		audit("error", err, nil)
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s%s", ProfilePictureFolder, userID, uuid.NewString(), ext)
	url, err := s.pics.Put(ctx, key, up.Body, up.Size, contentType)
	if err != nil {
		err = domain.ErrStorageUnavailable(err)
		audit("error", err, nil)
		return "", err
	}

	if _, err := s.users.SetProfilePic(ctx, userID, url); err != nil {
		audit("error", err, nil)
		return "", err
	}

	audit("success", nil, map[string]string{"key": key})
	return url, nil
}
