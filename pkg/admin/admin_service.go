package admin

import (
	"Cuisinade/domain"
	"Cuisinade/internal/utils/storage"
	"Cuisinade/pkg/recipe"
	"context"

	"github.com/gofiber/fiber/v2/log"
)

type (
	AdminService interface {
		GetDashboard(ctx context.Context, actor *domain.AuthContext) (domain.Dashboard, error)
		GetStats(ctx context.Context, actor *domain.AuthContext) (domain.Stats, error)
		ToggleAdmin(ctx context.Context, actor *domain.AuthContext, userID string) (domain.UserResponse, error)
		DeleteUser(ctx context.Context, actor *domain.AuthContext, userID string) error
		DeleteRecipe(ctx context.Context, actor *domain.AuthContext, recipeID string) error
		DeleteComment(ctx context.Context, actor *domain.AuthContext, commentID string) error
	}

	adminService struct {
		adminRepository  AdminRepository
		recipeRepository recipe.RecipeRepository
		images           storage.ImageStore
	}
)

func NewAdminService(adminRepository AdminRepository, recipeRepository recipe.RecipeRepository, images storage.ImageStore) AdminService {
	return &adminService{
		adminRepository:  adminRepository,
		recipeRepository: recipeRepository,
		images:           images,
	}
}

func requireAdmin(actor *domain.AuthContext) error {
	if actor.IsAnonymous() {
		return domain.ErrLoginRequired
	}
	if !actor.IsAdmin {
		return domain.ErrAdminRequired
	}
	return nil
}

func (s *adminService) stats(ctx context.Context) (domain.Stats, error) {
	var (
		st  domain.Stats
		err error
	)
	if st.Counts, err = s.adminRepository.GetCounts(ctx); err != nil {
		return st, err
	}
	if st.TopRatedRecipes, err = s.adminRepository.GetTopRatedRecipes(ctx, domain.AdminTopN); err != nil {
		return st, err
	}
	if st.MostFavorited, err = s.adminRepository.GetMostFavoritedRecipes(ctx, domain.AdminTopN); err != nil {
		return st, err
	}
	if st.MostActiveAuthors, err = s.adminRepository.GetMostActiveAuthors(ctx, domain.AdminTopN); err != nil {
		return st, err
	}
	if st.RecipesByDifficulty, err = s.adminRepository.GetRecipesByDifficulty(ctx); err != nil {
		return st, err
	}
	return st, nil
}

func (s *adminService) GetDashboard(ctx context.Context, actor *domain.AuthContext) (domain.Dashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Dashboard{}, err
	}

	st, err := s.stats(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}
	dashboard := domain.Dashboard{Stats: st}

	if dashboard.Users, err = s.adminRepository.GetUsers(ctx); err != nil {
		return domain.Dashboard{}, err
	}

	recipes, err := s.adminRepository.GetRecentRecipes(ctx, domain.AdminTopN)
	if err != nil {
		return domain.Dashboard{}, err
	}
	dashboard.RecentRecipes = make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		dashboard.RecentRecipes = append(dashboard.RecentRecipes, recipe.ToRecipeResponse(r, s.images))
	}

	comments, err := s.adminRepository.GetRecentComments(ctx, domain.AdminTopN)
	if err != nil {
		return domain.Dashboard{}, err
	}
	dashboard.RecentComments = make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		dashboard.RecentComments = append(dashboard.RecentComments, recipe.ToCommentResponse(c, s.images))
	}

	return dashboard, nil
}

func (s *adminService) GetStats(ctx context.Context, actor *domain.AuthContext) (domain.Stats, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Stats{}, err
	}
	return s.stats(ctx)
}

func (s *adminService) ToggleAdmin(ctx context.Context, actor *domain.AuthContext, userID string) (domain.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.UserResponse{}, err
	}
	user, err := s.adminRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if user.ID == actor.UserID {
		return domain.UserResponse{}, domain.ErrSelfDemotion
	}

	if err := s.adminRepository.UpdateAdmin(ctx, userID, !user.IsAdmin); err != nil {
		return domain.UserResponse{}, err
	}
	log.Infow("admin flag toggled", "actor", actor.Username, "user", user.Username, "is_admin", !user.IsAdmin)

	return domain.UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		IsAdmin:  !user.IsAdmin,
	}, nil
}

func (s *adminService) DeleteUser(ctx context.Context, actor *domain.AuthContext, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	user, err := s.adminRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID == actor.UserID {
		return domain.ErrSelfDeletion
	}

	images, err := s.adminRepository.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, ref := range images {
		s.images.Delete(ctx, ref)
	}
	log.Infow("user deleted", "actor", actor.Username, "user", user.Username)
	return nil
}

func (s *adminService) DeleteRecipe(ctx context.Context, actor *domain.AuthContext, recipeID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	images, err := s.recipeRepository.DeleteRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	for _, ref := range images {
		s.images.Delete(ctx, ref)
	}
	return nil
}

func (s *adminService) DeleteComment(ctx context.Context, actor *domain.AuthContext, commentID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	image, err := s.recipeRepository.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	if image != nil && *image != "" {
		s.images.Delete(ctx, *image)
	}
	return nil
}
