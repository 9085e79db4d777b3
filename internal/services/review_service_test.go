package services

import (
	"context"
	"testing"

	"buildmart-storefront/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewUpdatesRating(t *testing.T) {
	ctx := context.Background()
	sf := newStorefront(catalogProduct("c1", "cement", 8500, 10))
	user := uuid.New()
	require.NoError(t, sf.users.Create(ctx, &models.User{ID: user, Name: "김건설"}))

	_, err := sf.review.CreateReview(ctx, user.String(), &CreateReviewRequest{ProductID: "c1", Rating: 5, Content: "좋아요"})
	require.NoError(t, err)
	review, err := sf.review.CreateReview(ctx, user.String(), &CreateReviewRequest{ProductID: "c1", Rating: 2, Content: "보통"})
	require.NoError(t, err)
	assert.Equal(t, "김건설", review.UserName)
	assert.False(t, review.IsVerified)

	product, err := sf.products.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, product.AverageRating)
	assert.InDelta(t, 3.5, *product.AverageRating, 1e-9)
	assert.Equal(t, 2, *product.ReviewCount)

	page, err := sf.review.ListReviews(ctx, "c1", 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "보통", page.Items[0].Content)
	assert.Equal(t, 2, page.TotalPages)
}

func TestCreateReviewValidation(t *testing.T) {
	ctx := context.Background()
	sf := newStorefront(catalogProduct("c1", "cement", 8500, 10))
	user := uuid.NewString()

	_, err := sf.review.CreateReview(ctx, user, &CreateReviewRequest{ProductID: "c1", Rating: 6, Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = sf.review.CreateReview(ctx, user, &CreateReviewRequest{ProductID: "c1", Rating: 0, Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = sf.review.CreateReview(ctx, user, &CreateReviewRequest{ProductID: "zz", Rating: 3, Content: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateReviewVerifiedPurchase(t *testing.T) {
	ctx := context.Background()
	sf := newStorefront(catalogProduct("c1", "cement", 8500, 10))
	user := uuid.NewString()
	sf.addDefaultAddress(t, user)
	_, err := sf.carts.AddItem(ctx, user, &AddToCartRequest{ProductID: "c1", Quantity: 1})
	require.NoError(t, err)
	order, err := sf.checkout.Checkout(ctx, user, checkoutRequest)
	require.NoError(t, err)

	review, err := sf.review.CreateReview(ctx, user, &CreateReviewRequest{
		ProductID: "c1", OrderID: order.ID.String(), Rating: 4, Content: "튼튼함",
	})
	require.NoError(t, err)
	assert.True(t, review.IsVerified)

	stranger, err := sf.review.CreateReview(ctx, uuid.NewString(), &CreateReviewRequest{
		ProductID: "c1", OrderID: order.ID.String(), Rating: 4, Content: "x",
	})
	require.NoError(t, err)
	assert.False(t, stranger.IsVerified)
}
