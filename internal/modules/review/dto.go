package review

type CreateReviewRequest struct {
	PackageID int64  `json:"packageId" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment,omitempty" validate:"max=2000"`
}
