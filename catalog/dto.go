package catalog

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Update DTOs are partial: a nil field or a nil ID list leaves the stored value
// untouched, while an empty non-nil list removes every link.

var (
	idRequired = validation.NotIn(uuid.Nil).Error("is required")
	eachID     = validation.Each(idRequired)

	titleRules    = []validation.Rule{validation.RuneLength(1, 20)}
	userNameRules = []validation.Rule{validation.RuneLength(4, 20)}
	emailRules    = []validation.Rule{validation.RuneLength(4, 30), is.Email}
	passwordRules = []validation.Rule{validation.RuneLength(4, 20)}
	durationRules = []validation.Rule{validation.Min(10), validation.Max(3600)}
)

func required(rules []validation.Rule) []validation.Rule {
	return append([]validation.Rule{validation.Required}, rules...)
}

func optional(rules []validation.Rule) []validation.Rule {
	return append([]validation.Rule{validation.NilOrNotEmpty}, rules...)
}

type AlbumCreate struct {
	Name      string      `json:"name" yaml:"name"`
	ArtistIDs []uuid.UUID `json:"artist_ids" yaml:"artist_ids"`
	TrackIDs  []uuid.UUID `json:"track_ids" yaml:"track_ids"`
}

func (d AlbumCreate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, required(titleRules)...),
		validation.Field(&d.ArtistIDs, validation.Required, eachID),
		validation.Field(&d.TrackIDs, eachID),
	)
}

type AlbumUpdate struct {
	Name      *string     `json:"name" yaml:"name"`
	ArtistIDs []uuid.UUID `json:"artist_ids" yaml:"artist_ids"`
	TrackIDs  []uuid.UUID `json:"track_ids" yaml:"track_ids"`
}

func (d AlbumUpdate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, optional(titleRules)...),
		validation.Field(&d.ArtistIDs, eachID),
		validation.Field(&d.TrackIDs, eachID),
	)
}

type ArtistCreate struct {
	Name     string      `json:"name" yaml:"name"`
	AlbumIDs []uuid.UUID `json:"album_ids" yaml:"album_ids"`
}

func (d ArtistCreate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.AlbumIDs, eachID),
	)
}

type ArtistUpdate struct {
	Name     *string     `json:"name" yaml:"name"`
	AlbumIDs []uuid.UUID `json:"album_ids" yaml:"album_ids"`
}

func (d ArtistUpdate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.NilOrNotEmpty),
		validation.Field(&d.AlbumIDs, eachID),
	)
}

type TrackCreate struct {
	Name     string      `json:"name" yaml:"name"`
	Duration int         `json:"duration" yaml:"duration"`
	AlbumID  uuid.UUID   `json:"album_id" yaml:"album_id"`
	GenreIDs []uuid.UUID `json:"genre_ids" yaml:"genre_ids"`
}

func (d TrackCreate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, required(titleRules)...),
		validation.Field(&d.Duration, required(durationRules)...),
		validation.Field(&d.AlbumID, idRequired),
		validation.Field(&d.GenreIDs, validation.Required, eachID),
	)
}

type TrackUpdate struct {
	Name        *string     `json:"name" yaml:"name"`
	Duration    *int        `json:"duration" yaml:"duration"`
	AlbumID     *uuid.UUID  `json:"album_id" yaml:"album_id"`
	GenreIDs    []uuid.UUID `json:"genre_ids" yaml:"genre_ids"`
	PlaylistIDs []uuid.UUID `json:"playlist_ids" yaml:"playlist_ids"`
}

func (d TrackUpdate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, optional(titleRules)...),
		validation.Field(&d.Duration, optional(durationRules)...),
		validation.Field(&d.AlbumID, idRequired),
		validation.Field(&d.GenreIDs, validation.NilOrNotEmpty, eachID),
		validation.Field(&d.PlaylistIDs, eachID),
	)
}

type GenreCreate struct {
	Name     string      `json:"name" yaml:"name"`
	TrackIDs []uuid.UUID `json:"track_ids" yaml:"track_ids"`
}

func (d GenreCreate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.TrackIDs, eachID),
	)
}

type GenreUpdate struct {
	Name     *string     `json:"name" yaml:"name"`
	TrackIDs []uuid.UUID `json:"track_ids" yaml:"track_ids"`
}

func (d GenreUpdate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.NilOrNotEmpty),
		validation.Field(&d.TrackIDs, eachID),
	)
}

type PlaylistCreate struct {
	Name          string      `json:"name" yaml:"name"`
	AuthorID      uuid.UUID   `json:"author_id" yaml:"author_id"`
	TrackIDs      []uuid.UUID `json:"track_ids" yaml:"track_ids"`
	SubscriberIDs []uuid.UUID `json:"subscriber_ids" yaml:"subscriber_ids"`
}

func (d PlaylistCreate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, required(titleRules)...),
		validation.Field(&d.AuthorID, idRequired),
		validation.Field(&d.TrackIDs, eachID),
		validation.Field(&d.SubscriberIDs, eachID),
	)
}

type PlaylistUpdate struct {
	Name          *string     `json:"name" yaml:"name"`
	AuthorID      *uuid.UUID  `json:"author_id" yaml:"author_id"`
	TrackIDs      []uuid.UUID `json:"track_ids" yaml:"track_ids"`
	SubscriberIDs []uuid.UUID `json:"subscriber_ids" yaml:"subscriber_ids"`
}

func (d PlaylistUpdate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, optional(titleRules)...),
		validation.Field(&d.AuthorID, idRequired),
		validation.Field(&d.TrackIDs, eachID),
		validation.Field(&d.SubscriberIDs, eachID),
	)
}

type UserCreate struct {
	Name                  string      `json:"name" yaml:"name"`
	Email                 string      `json:"email" yaml:"email"`
	Password              string      `json:"password" yaml:"password"`
	LikedTrackIDs         []uuid.UUID `json:"liked_track_ids" yaml:"liked_track_ids"`
	SubscribedPlaylistIDs []uuid.UUID `json:"subscribed_playlist_ids" yaml:"subscribed_playlist_ids"`
}

func (d UserCreate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, required(userNameRules)...),
		validation.Field(&d.Email, required(emailRules)...),
		validation.Field(&d.Password, required(passwordRules)...),
		validation.Field(&d.LikedTrackIDs, eachID),
		validation.Field(&d.SubscribedPlaylistIDs, eachID),
	)
}

type UserUpdate struct {
	Name                  *string     `json:"name" yaml:"name"`
	Email                 *string     `json:"email" yaml:"email"`
	Password              *string     `json:"password" yaml:"password"`
	LikedTrackIDs         []uuid.UUID `json:"liked_track_ids" yaml:"liked_track_ids"`
	SubscribedPlaylistIDs []uuid.UUID `json:"subscribed_playlist_ids" yaml:"subscribed_playlist_ids"`
}

func (d UserUpdate) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, optional(userNameRules)...),
		validation.Field(&d.Email, optional(emailRules)...),
		validation.Field(&d.Password, optional(passwordRules)...),
		validation.Field(&d.LikedTrackIDs, eachID),
		validation.Field(&d.SubscribedPlaylistIDs, eachID),
	)
}
