package in

import (
	"github.com/gofiber/fiber/v2"

	commonhttp "github.com/mrrabbitte/pooly/common/net/http"
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// entityService narrows a cache.CacheBackedService[T,U] to the five
// operations the generic CRUD routes below need, so this file depends on
// behavior rather than importing the concrete service types.
type entityService[T any, U versioning.UpdateCommand] interface {
	Get(id string) (versioning.Versioned[T], bool, error)
	GetAllKeys() ([]string, error)
	Create(value T) (versioning.Versioned[T], error)
	Update(id string, cmd U) (versioning.Versioned[T], error)
	Delete(id string) error
}

// registerCrudRoutes wires the standard GET (list), GET/:id, POST, PUT/:id,
// DELETE/:id quintet for one resource onto router at path.
func registerCrudRoutes[T any, U versioning.UpdateCommand](
	router fiber.Router,
	path string,
	idParam string,
	svc entityService[T, U],
) {
	router.Get(path, listHandler[T, U](svc))
	router.Get(path+"/:"+idParam, getHandler[T, U](svc, idParam))
	router.Post(path, createHandler[T, U](svc))
	router.Put(path+"/:"+idParam, updateHandler[T, U](svc, idParam))
	router.Delete(path+"/:"+idParam, deleteHandler[T, U](svc, idParam))
}

func listHandler[T any, U versioning.UpdateCommand](svc entityService[T, U]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := svc.GetAllKeys()
		if err != nil {
			return err
		}

		return commonhttp.OK(c, fiber.Map{"ids": keys})
	}
}

func getHandler[T any, U versioning.UpdateCommand](svc entityService[T, U], idParam string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		versioned, found, err := svc.Get(c.Params(idParam))
		if err != nil {
			return err
		}

		if !found {
			return commonhttp.NotFound(c, "", "Not Found", "no entry with id "+c.Params(idParam))
		}

		return commonhttp.OK(c, versioned)
	}
}

func createHandler[T any, U versioning.UpdateCommand](svc entityService[T, U]) fiber.Handler {
	return commonhttp.WithBody(new(T), func(body any, c *fiber.Ctx) error {
		versioned, err := svc.Create(*body.(*T))
		if err != nil {
			return err
		}

		return commonhttp.Created(c, versioned)
	})
}

func updateHandler[T any, U versioning.UpdateCommand](svc entityService[T, U], idParam string) fiber.Handler {
	return commonhttp.WithBody(new(U), func(body any, c *fiber.Ctx) error {
		versioned, err := svc.Update(c.Params(idParam), *body.(*U))
		if err != nil {
			return err
		}

		return commonhttp.OK(c, versioned)
	})
}

func deleteHandler[T any, U versioning.UpdateCommand](svc entityService[T, U], idParam string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Params(idParam)); err != nil {
			return err
		}

		return commonhttp.NoContent(c)
	}
}
