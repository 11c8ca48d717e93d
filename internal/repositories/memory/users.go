package memory

import (
	"context"
	"sort"
	"strings"

	"advance/internal/models"
	"advance/internal/repositories"
)

type userRepo struct{ v *view }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	return r.v.do(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return repositories.ErrEmailTaken
			}
		}
		st.nextUser++
		user.ID = st.nextUser
		now := r.v.s.now()
		user.CreatedAt, user.UpdatedAt = now, now
		if user.Role == "" {
			user.Role = models.RoleMember
		}
		st.users[user.ID] = *user

		pref := models.DefaultPreference(user.ID)
		st.nextPreference++
		pref.ID = st.nextPreference
		pref.UpdatedAt = now
		st.preferences[user.ID] = pref
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	var out *models.User
	err := r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repositories.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return repositories.ErrUserNotFound
	})
	return out, err
}

func (r *userRepo) ListActiveStaff(ctx context.Context) ([]models.User, error) {
	return r.listActive(models.RoleAdmin)
}

func (r *userRepo) ListActiveMembers(ctx context.Context) ([]models.User, error) {
	return r.listActive(models.RoleMember)
}

func (r *userRepo) listActive(role string) ([]models.User, error) {
	var out []models.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if u.Role == role && u.IsActive {
				out = append(out, u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
